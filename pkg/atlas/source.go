package atlas

import (
	"bytes"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP alongside imaging's formats
)

// FrameSource is one decodable image in an ordered frame sequence.
// The compositor only reads from it.
type FrameSource interface {
	// ID identifies the source in logs and errors (usually a file path).
	ID() string
	// Open returns the encoded image bytes.
	Open() (io.ReadCloser, error)
}

// imageFrame is implemented by sources that already hold a decoded image.
type imageFrame interface {
	Image() (image.Image, error)
}

// FileSource reads a frame from a file path.
type FileSource string

// ID returns the file path.
func (f FileSource) ID() string { return string(f) }

// Open opens the file.
func (f FileSource) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

// FileSources converts paths to frame sources, preserving order.
func FileSources(paths []string) []FrameSource {
	out := make([]FrameSource, len(paths))
	for i, p := range paths {
		out[i] = FileSource(p)
	}
	return out
}

// BytesSource holds an encoded frame in memory.
type BytesSource struct {
	Name string
	Data []byte
}

// ID returns the source name.
func (b BytesSource) ID() string { return b.Name }

// Open returns a reader over the encoded bytes.
func (b BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

// ImageSource wraps an already decoded image.
type ImageSource struct {
	Name string
	Img  image.Image
}

// ID returns the source name.
func (s ImageSource) ID() string { return s.Name }

// Open encodes the image as PNG. Compose skips this and uses Image directly.
func (s ImageSource) Open() (io.ReadCloser, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, s.Img, imaging.PNG); err != nil {
		return nil, err
	}
	return io.NopCloser(&buf), nil
}

// Image returns the wrapped image.
func (s ImageSource) Image() (image.Image, error) { return s.Img, nil }

// decodeFrame returns the pixels of src.
func decodeFrame(src FrameSource, autoOrient bool) (image.Image, error) {
	if f, ok := src.(imageFrame); ok {
		return f.Image()
	}
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return imaging.Decode(rc, imaging.AutoOrientation(autoOrient))
}
