package photo

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, enc.Encode(&buf, img))
	return buf.Bytes()
}

func noisePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompress_SmallImagePassesThrough(t *testing.T) {
	data := gradientPNG(t, 32, 16)
	c := NewCompressor(DefaultMaxBytes)

	res, err := c.Compress(data)
	require.NoError(t, err)
	assert.Equal(t, data, res.Data)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, 0, res.Pass)
	assert.Equal(t, 32, res.Width)
	assert.Equal(t, 16, res.Height)
}

func TestCompress_FirstPassWins(t *testing.T) {
	data := gradientPNG(t, 500, 500)
	c := NewCompressor(200_000)
	require.Greater(t, len(data), 200_000)

	res, err := c.Compress(data)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pass)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.LessOrEqual(t, len(res.Data), 200_000)
	assert.Equal(t, 500, res.Width, "first pass keeps the original size")
}

func TestCompress_EscalatesToDownscale(t *testing.T) {
	data := noisePNG(t, 800, 600)
	c := &Compressor{
		MaxBytes: 30_000,
		Passes: []Pass{
			{MaxDimension: 0, Quality: 90},
			{MaxDimension: 400, Quality: 80},
			{MaxDimension: 64, Quality: 70},
		},
	}

	res, err := c.Compress(data)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pass)
	assert.LessOrEqual(t, len(res.Data), 30_000)
	assert.Equal(t, 64, res.Width, "long edge bounded")
	assert.Equal(t, 48, res.Height, "aspect ratio kept")
}

func TestCompress_TooLarge(t *testing.T) {
	data := noisePNG(t, 400, 400)
	c := &Compressor{MaxBytes: 1_000, Passes: []Pass{{Quality: 90}, {MaxDimension: 300, Quality: 80}}}

	_, err := c.Compress(data)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestCompress_DecodeFailure(t *testing.T) {
	c := NewCompressor(DefaultMaxBytes)

	_, err := c.Compress([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)

	// PNG signature followed by garbage sniffs as PNG but cannot be decoded.
	broken := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x01}, 64)...)
	_, err = c.Compress(broken)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", Extension("image/jpeg"))
	assert.Equal(t, ".png", Extension("image/png"))
	assert.Equal(t, ".jpg", Extension("application/x-unknown"))
}
