package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	f := New(4, 3)
	assert.Equal(t, 4, f.Width)
	assert.Equal(t, 3, f.Height)
	assert.Equal(t, 12, f.Stride)
	assert.Len(t, f.Pix, 36)
	assert.NoError(t, f.Validate())
}

func TestPixelAccess(t *testing.T) {
	f := New(4, 3)
	f.SetBGR(2, 1, 10, 20, 30)

	b, g, r := f.BGR(2, 1)
	assert.Equal(t, byte(10), b)
	assert.Equal(t, byte(20), g)
	assert.Equal(t, byte(30), r)

	// Neighbors stay untouched.
	b, g, r = f.BGR(1, 1)
	assert.Equal(t, byte(0), b+g+r)
}

func TestClone_Independent(t *testing.T) {
	f := New(2, 2)
	f.SetBGR(0, 0, 1, 2, 3)

	c := f.Clone()
	require.Equal(t, f.Pix, c.Pix)

	c.SetBGR(0, 0, 9, 9, 9)
	b, _, _ := f.BGR(0, 0)
	assert.Equal(t, byte(1), b, "clone must not share the pixel buffer")
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Frame{Width: 0, Height: 1, Stride: 0}).Validate())
	assert.Error(t, (&Frame{Width: 4, Height: 1, Stride: 6, Pix: make([]byte, 6)}).Validate())
	assert.Error(t, (&Frame{Width: 2, Height: 2, Stride: 6, Pix: make([]byte, 6)}).Validate())

	ok := &Frame{Width: 2, Height: 2, Stride: 8, Pix: make([]byte, 16)}
	assert.NoError(t, ok.Validate(), "padded stride is legal")
}
