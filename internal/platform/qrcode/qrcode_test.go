package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGEncodesSquareImage(t *testing.T) {
	data, err := PNG("EMP-1700000000000-ab12cd34", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestPNGDefaultsSize(t *testing.T) {
	data, err := PNG("EMP-1", 0)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestPNGRejectsEmpty(t *testing.T) {
	_, err := PNG("", 100)
	assert.ErrorIs(t, err, ErrEmptyContent)
}
