package cache

// ScopedKeyer prefixes every key of an inner Keyer.
//
// The server uses it to keep its entries apart from CLI entries when both
// share one Redis database:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "flipbook:server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AtlasKey generates a prefixed atlas key.
func (k *ScopedKeyer) AtlasKey(framesHash string, opts AtlasKeyOpts) string {
	return k.prefix + k.inner.AtlasKey(framesHash, opts)
}
