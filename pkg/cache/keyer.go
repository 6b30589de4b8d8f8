package cache

// Keyer builds cache keys.
type Keyer interface {
	// AtlasKey returns the key of an encoded atlas built from frames whose
	// combined content hash is framesHash.
	AtlasKey(framesHash string, opts AtlasKeyOpts) string
}

// AtlasKeyOpts holds the options that change atlas pixels or bytes.
type AtlasKeyOpts struct {
	Frames      int    `json:"frames"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Filter      string `json:"filter"`
	Compression int    `json:"compression"`
	AutoOrient  bool   `json:"auto_orient,omitempty"`
}

// DefaultKeyer produces unprefixed keys of the form "atlas:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AtlasKey implements Keyer.
func (DefaultKeyer) AtlasKey(framesHash string, opts AtlasKeyOpts) string {
	return hashKey("atlas", framesHash, opts)
}

var _ Keyer = DefaultKeyer{}
