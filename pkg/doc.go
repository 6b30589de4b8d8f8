// Package pkg provides the libraries behind flipbook, a tool that packs an
// ordered image sequence into one sprite-sheet atlas.
//
// # Overview
//
// An atlas places N frames row by row on a fixed transparent canvas
// (7680x6144 by default). The grid is chosen from N alone: roughly square,
// slightly wider than tall, with every cell the same size. Game engines
// play the frames back as an animated texture.
//
// # Architecture
//
// The data flow of one build:
//
//	frames directory
//	       ↓
//	  [source]    list image files, sort, keep the first N
//	       ↓
//	  [atlas]     ComputeLayout → Compose → Encode
//	       ↓
//	  [pipeline]  cache lookup, atomic write, optional [io] manifest
//	       ↓
//	  atlas.png (+ atlas.json)
//
// # Quick Start
//
//	plan, err := atlas.ComputeLayout(len(frames), atlas.DefaultCanvasWidth, atlas.DefaultCanvasHeight)
//	if err != nil {
//	    return err
//	}
//	canvas, err := atlas.Compose(ctx, frames, plan, atlas.WithProgress(func(pct int) {
//	    fmt.Printf("\r%d%%", pct)
//	}))
//	if err != nil {
//	    return err
//	}
//	_, err = atlas.WriteFile("atlas.png", canvas, png.DefaultCompression)
//
// # Main Packages
//
// [atlas] - Grid layout, parallel compositing and PNG encoding.
//
// [source] - Frame enumeration from a directory.
//
// [pipeline] - A complete build with caching, used by the CLI and the
// HTTP server. [pipeline.Runner.Start] runs it in the background with a
// progress channel.
//
// [cache] - Encoded atlases keyed by frame content and options, stored on
// disk or in Redis.
//
// [jobs] - Job records for the HTTP server, in memory or in Redis.
//
// [io] - The JSON manifest describing where each frame sits in an atlas.
//
// [errors] - Error codes shared by every layer, and input validators.
//
// [observability] - Hooks for logging or metrics around builds and cache
// access.
//
// [atlas]: https://pkg.go.dev/github.com/matzehuels/flipbook/pkg/atlas
// [source]: https://pkg.go.dev/github.com/matzehuels/flipbook/pkg/source
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flipbook/pkg/pipeline
// [pipeline.Runner.Start]: https://pkg.go.dev/github.com/matzehuels/flipbook/pkg/pipeline#Runner.Start
// [cache]: https://pkg.go.dev/github.com/matzehuels/flipbook/pkg/cache
// [jobs]: https://pkg.go.dev/github.com/matzehuels/flipbook/pkg/jobs
// [io]: https://pkg.go.dev/github.com/matzehuels/flipbook/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/flipbook/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/flipbook/pkg/observability
package pkg
