package goblit

import (
	"fmt"
	"image"
)

// Bitmap is a flat RGBA pixel buffer: 4 bytes per pixel in native R, G, B, A
// layout, row-major, stride equal to Width. The buffer is owned by whoever
// created it; blit operations borrow it for the duration of a call only.
type Bitmap struct {
	Pix    []byte
	Width  int
	Height int
}

// NewBitmap allocates a zeroed Width×Height bitmap.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		Pix:    make([]byte, width*height*4),
		Width:  width,
		Height: height,
	}
}

// BitmapFromPix wraps a caller-owned pixel buffer. The buffer must be sized
// exactly width*height*4 bytes.
func BitmapFromPix(pix []byte, width, height int) (*Bitmap, error) {
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel buffer is %d bytes, want %d for %dx%d", len(pix), width*height*4, width, height)
	}
	return &Bitmap{Pix: pix, Width: width, Height: height}, nil
}

// PixOffset returns the byte offset of the pixel at (x, y).
func (b *Bitmap) PixOffset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At returns the pixel at (x, y), or a zero pixel if the coordinates are out
// of range.
func (b *Bitmap) At(x, y int) Pixel {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Pixel{}
	}
	return b.AtUnchecked(x, y)
}

// Set sets the pixel at (x, y); out-of-range coordinates are ignored.
func (b *Bitmap) Set(x, y int, p Pixel) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	b.SetUnchecked(x, y, p)
}

// AtUnchecked returns the pixel at (x, y) without bounds checking.
func (b *Bitmap) AtUnchecked(x, y int) Pixel {
	off := b.PixOffset(x, y)
	return Pixel{b.Pix[off], b.Pix[off+1], b.Pix[off+2], b.Pix[off+3]}
}

// SetUnchecked sets the pixel at (x, y) without bounds checking.
func (b *Bitmap) SetUnchecked(x, y int, p Pixel) {
	off := b.PixOffset(x, y)
	copy(b.Pix[off:off+4], p[:])
}

// Fill sets every pixel to the given external-convention color.
func (b *Bitmap) Fill(color uint32) {
	fillPixels(b.Pix, 0, b.Width*b.Height, ConvertColor(color))
}

// Blit copies the width×height region of src at (srcX, srcY) into b at
// (dstX, dstY) with the given downsampling ratio. See CopyPixels for the
// clipping and fill semantics.
func (b *Bitmap) Blit(src *Bitmap, dstX, dstY, srcX, srcY, width, height, ratio int, fillBlank bool, fillColor uint32) {
	CopyPixels(b.Pix, b.Width, b.Height, dstX, dstY,
		src.Pix, src.Width, src.Height, srcX, srcY,
		width, height, ratio, fillBlank, fillColor)
}

// RGBA returns an image.RGBA sharing the bitmap's pixel buffer.
func (b *Bitmap) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
