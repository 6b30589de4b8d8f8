package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flipbook/pkg/observability"
)

// LogHooks reports atlas and cache events at debug level.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ observability.AtlasHooks = LogHooks{}
	_ observability.CacheHooks = LogHooks{}
)

// RegisterLogHooks installs LogHooks for the CLI's logger.
func (c *CLI) RegisterLogHooks() {
	h := LogHooks{Logger: c.Logger}
	observability.SetAtlasHooks(h)
	observability.SetCacheHooks(h)
}

func (h LogHooks) OnLayout(_ context.Context, frames, columns, rows int) {
	h.Logger.Debug("layout", "frames", frames, "columns", columns, "rows", rows)
}

func (h LogHooks) OnComposeStart(_ context.Context, frames int) {
	h.Logger.Debug("compose start", "frames", frames)
}

func (h LogHooks) OnFrame(_ context.Context, index int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("frame failed", "index", index, "error", err)
		return
	}
	h.Logger.Debug("frame placed", "index", index, "duration", d.Round(time.Microsecond))
}

func (h LogHooks) OnComposeComplete(_ context.Context, frames int, d time.Duration, err error) {
	h.Logger.Debug("compose complete", "frames", frames, "duration", d.Round(time.Millisecond), "error", err)
}

func (h LogHooks) OnEncode(_ context.Context, size int, d time.Duration, err error) {
	h.Logger.Debug("encode", "bytes", size, "duration", d.Round(time.Millisecond), "error", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}
