package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeTextureRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 255, A: 128})

	tex, err := DecodeTexture(bytes.NewReader(encodePNG(t, img)))
	require.NoError(t, err)

	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, uint64(16), tex.Size())
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[0:4])
	assert.Equal(t, []byte{0, 0, 255, 128}, tex.Pixels[12:16])
}

func TestDecodeTextureGrayExpandsToRGBA(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(1, 0, color.Gray{Y: 128})

	tex, err := DecodeTexture(bytes.NewReader(encodePNG(t, img)))
	require.NoError(t, err)

	assert.Len(t, tex.Pixels, 3*4)
	assert.Equal(t, []byte{128, 128, 128, 255}, tex.Pixels[4:8])
}

func TestDecodeTextureBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	img.Set(3, 1, color.RGBA{G: 200, A: 255})

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))

	tex, err := DecodeTexture(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, []byte{0, 200, 0, 255}, tex.Pixels[(1*4+3)*4:(1*4+3)*4+4])
}

func TestDecodeTextureGarbage(t *testing.T) {
	_, err := DecodeTexture(bytes.NewReader([]byte("definitely not an image")))
	assert.ErrorIs(t, err, core.ErrDecodeFailed)
}

func TestTextureLoaderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checker.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 8, 4))), 0o644))

	res, err := (&TextureLoader{}).Load(path)
	require.NoError(t, err)
	assert.Equal(t, metadata.ResourceTypeTexture, res.Type)

	tex, ok := res.Data.(*metadata.TextureData)
	require.True(t, ok)
	assert.Equal(t, 8, tex.Width)
	assert.Equal(t, 4, tex.Height)
	assert.Equal(t, uint64(8*4*4), res.DataSize)
}
