package goblit

import (
	"bytes"
	"math/rand"
	"testing"
	"time"
)

func testImage(w, h, frames int, rng *rand.Rand) *Image {
	m := &Image{width: w, height: h, format: FormatPNG}
	for i := 0; i < frames; i++ {
		m.frames = append(m.frames, &frame{
			pix:   makeRandom(w, h, 256, rng),
			delay: time.Duration(i+1) * 50 * time.Millisecond,
		})
	}
	m.opaque = scanOpaque(m.frames)
	return m
}

func TestImageAdvanceWraps(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	m := testImage(2, 2, 3, rng)

	want := []int{0, 1, 2, 0, 1}
	for i, idx := range want {
		if m.FrameIndex() != idx {
			t.Fatalf("step %d: frame index is %d, want %d", i, m.FrameIndex(), idx)
		}
		if got := m.Delay(); got != time.Duration(idx+1)*50*time.Millisecond {
			t.Fatalf("step %d: delay is %s", i, got)
		}
		m.Advance()
	}
}

func TestImageByteCount(t *testing.T) {
	rng := rand.New(rand.NewSource(32))
	m := testImage(4, 3, 2, rng)
	if got := m.ByteCount(); got != 2*4*3*4 {
		t.Fatalf("ByteCount = %d, want %d", got, 2*4*3*4)
	}
}

func TestImageRenderMatchesCopyPixels(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	m := testImage(6, 6, 2, rng)
	m.Advance()

	viaRender := NewBitmap(3, 3)
	m.Render(0, 0, viaRender, 0, 0, 6, 6, 2, false, 0)

	direct := make([]byte, 3*3*4)
	CopyPixels(direct, 3, 3, 0, 0, m.frames[1].pix, 6, 6, 0, 0, 6, 6, 2, false, 0)

	if !bytes.Equal(viaRender.Pix, direct) {
		t.Fatal("Render and CopyPixels disagree")
	}
}

func TestScanOpaque(t *testing.T) {
	opaque := []*frame{{pix: []byte{1, 2, 3, 255, 4, 5, 6, 255}}}
	if !scanOpaque(opaque) {
		t.Error("all-opaque frames reported as not opaque")
	}

	mixed := []*frame{
		{pix: []byte{1, 2, 3, 255}},
		{pix: []byte{1, 2, 3, 254}},
	}
	if scanOpaque(mixed) {
		t.Error("frame with alpha 254 reported as opaque")
	}
}
