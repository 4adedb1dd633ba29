// Package photo shrinks user photo uploads so they fit the storage size limit.
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes is the largest object the photo buckets accept.
const DefaultMaxBytes int64 = 4_900_000

var (
	// ErrDecode means the upload is not an image we can read.
	ErrDecode = errors.New("photo: could not decode image")
	// ErrTooLarge means no compression pass got the image under the size limit.
	ErrTooLarge = errors.New("photo: image too large even after compression")
)

// Pass is one re-encoding attempt. MaxDimension bounds the long edge; 0 keeps the size.
type Pass struct {
	MaxDimension int
	Quality      int
}

// DefaultPasses escalate from a plain re-encode to an aggressive downscale.
var DefaultPasses = []Pass{
	{MaxDimension: 0, Quality: 90},
	{MaxDimension: 2560, Quality: 80},
	{MaxDimension: 1920, Quality: 70},
}

// Result is the compressed upload.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	// Pass is the 1-based pass that produced Data, 0 when the input passed through.
	Pass int
}

// Compressor re-encodes images as JPEG until they fit MaxBytes.
type Compressor struct {
	MaxBytes int64
	Passes   []Pass
}

// NewCompressor returns a compressor with the default passes.
func NewCompressor(maxBytes int64) *Compressor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Compressor{MaxBytes: maxBytes, Passes: DefaultPasses}
}

// Compress returns data unchanged when it already fits, otherwise the output of the first
// pass that fits. It has no side effects.
func (c *Compressor) Compress(data []byte) (*Result, error) {
	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return nil, fmt.Errorf("%w: unsupported type %s", ErrDecode, mt.String())
	}

	if int64(len(data)) <= c.MaxBytes {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return &Result{Data: data, ContentType: mt.String(), Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	for i, p := range c.Passes {
		out := img
		if p.MaxDimension > 0 {
			b := img.Bounds()
			if b.Dx() > p.MaxDimension || b.Dy() > p.MaxDimension {
				out = imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
			}
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
			return nil, fmt.Errorf("photo: encode pass %d: %w", i+1, err)
		}
		if int64(buf.Len()) <= c.MaxBytes {
			b := out.Bounds()
			return &Result{
				Data:        buf.Bytes(),
				ContentType: "image/jpeg",
				Width:       b.Dx(),
				Height:      b.Dy(),
				Pass:        i + 1,
			}, nil
		}
	}
	return nil, ErrTooLarge
}

func isImage(mt *mimetype.MIME) bool {
	for _, t := range []string{"image/jpeg", "image/png", "image/gif", "image/bmp", "image/tiff"} {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

// Extension maps a content type produced by Compress to a file extension.
func Extension(contentType string) string {
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ".jpg"
}
