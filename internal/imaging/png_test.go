package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 200, A: 255})
		}
	}
	return img
}

func TestToPNG_FromJPEG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, sampleImage(), nil))

	out, format, err := ToPNG(&src)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), decoded.Bounds())
}

func TestToPNG_FromPNG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, sampleImage()))

	out, format, err := ToPNG(&src)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")))
}

func TestToPNG_RejectsNonImage(t *testing.T) {
	_, _, err := ToPNG(strings.NewReader("definitely not a dog"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestToPNG_RejectsTruncatedJPEG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, sampleImage(), nil))
	half := src.Bytes()[:src.Len()/2]

	_, _, err := ToPNG(bytes.NewReader(half))
	assert.ErrorIs(t, err, ErrUnsupported)
}
