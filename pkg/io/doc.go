// Package io reads and writes sprite-sheet manifests.
//
// # Overview
//
// A manifest is a small JSON document written next to an atlas so that a
// game engine or shader can slice the atlas without recomputing the grid.
// It records the canvas size, the grid, the cell size and the rectangle of
// every frame. It carries no timing or playback data.
//
// # JSON Format
//
//	{
//	  "image": "atlas.png",
//	  "width": 7680,
//	  "height": 6144,
//	  "columns": 5,
//	  "rows": 5,
//	  "cell_width": 1536,
//	  "cell_height": 1228,
//	  "frames": [
//	    {"index": 0, "source": "frame_000.png", "x": 0, "y": 0, "w": 1536, "h": 1228},
//	    {"index": 1, "source": "frame_001.png", "x": 1536, "y": 0, "w": 1536, "h": 1228}
//	  ]
//	}
//
// Frames are listed in row-major order. "source" is the base name of the
// input file and is omitted when unknown.
//
// # Export
//
// Use [NewManifest] to build a manifest from an [atlas.Plan], then
// [WriteManifest] to encode it to any io.Writer or [ExportManifest] to
// store it at a path. ExportManifest replaces the file atomically.
//
// # Import
//
// [ReadManifest] and [ImportManifest] decode a manifest and check that its
// frame rectangles agree with its grid, so tools can trust what they load.
package io
