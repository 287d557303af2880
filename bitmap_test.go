package goblit

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestNewBitmap(t *testing.T) {
	b := NewBitmap(5, 3)
	if b.Width != 5 || b.Height != 3 {
		t.Fatalf("bitmap is %dx%d, want 5x3", b.Width, b.Height)
	}
	if len(b.Pix) != 5*3*4 {
		t.Fatalf("pixel buffer is %d bytes, want %d", len(b.Pix), 5*3*4)
	}
}

func TestBitmapFromPix(t *testing.T) {
	pix := make([]byte, 4*4*4)
	b, err := BitmapFromPix(pix, 4, 4)
	if err != nil {
		t.Fatalf("BitmapFromPix failed: %v", err)
	}
	if &b.Pix[0] != &pix[0] {
		t.Fatal("bitmap does not wrap the caller's buffer")
	}

	if _, err := BitmapFromPix(make([]byte, 10), 4, 4); err == nil {
		t.Fatal("expected an error for a mis-sized buffer")
	}
}

func TestBitmapAtSet(t *testing.T) {
	b := NewBitmap(4, 4)
	p := Pixel{1, 2, 3, 4}

	b.Set(2, 3, p)
	if got := b.At(2, 3); got != p {
		t.Fatalf("At(2,3) = %v, want %v", got, p)
	}

	// Out-of-range access is absorbed.
	b.Set(-1, 0, p)
	b.Set(4, 0, p)
	b.Set(0, 4, p)
	if got := b.At(-1, 0); got != (Pixel{}) {
		t.Fatalf("At(-1,0) = %v, want zero pixel", got)
	}
	if got := b.At(0, 17); got != (Pixel{}) {
		t.Fatalf("At(0,17) = %v, want zero pixel", got)
	}
}

func TestBitmapFill(t *testing.T) {
	b := NewBitmap(3, 3)
	b.Fill(0xFF102030)
	want := Pixel{0x10, 0x20, 0x30, 0xFF}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := b.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestBitmapBlitMatchesCopyPixels(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	src := NewBitmap(6, 6)
	for i := range src.Pix {
		src.Pix[i] = byte(rng.Intn(256))
	}

	viaBitmap := NewBitmap(4, 4)
	viaBitmap.Blit(src, 1, 1, 0, 0, 4, 4, 2, true, 0xFF000000)

	direct := make([]byte, 4*4*4)
	CopyPixels(direct, 4, 4, 1, 1, src.Pix, 6, 6, 0, 0, 4, 4, 2, true, 0xFF000000)

	if !bytes.Equal(viaBitmap.Pix, direct) {
		t.Fatal("Bitmap.Blit and CopyPixels disagree")
	}
}

func TestBitmapRGBASharesPix(t *testing.T) {
	b := NewBitmap(2, 2)
	img := b.RGBA()
	if &img.Pix[0] != &b.Pix[0] {
		t.Fatal("RGBA() copied the pixel buffer")
	}
	if img.Stride != 8 || img.Rect.Dx() != 2 || img.Rect.Dy() != 2 {
		t.Fatalf("RGBA() geometry is stride=%d rect=%v", img.Stride, img.Rect)
	}
}
