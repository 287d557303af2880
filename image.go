package goblit

import "time"

// frame is one decoded animation step: a flat RGBA buffer plus the delay
// before the next step.
type frame struct {
	pix   []byte
	delay time.Duration
}

// Image is a decoded, possibly animated image. Frames are flat RGBA buffers
// in native channel layout, all sharing the image's dimensions. An Image
// keeps a current-frame cursor; Render draws the current frame and Advance
// moves the cursor.
type Image struct {
	frames    []*frame
	width     int
	height    int
	format    Format
	opaque    bool
	loopCount int
	index     int
}

// Width returns the image width in pixels.
func (m *Image) Width() int {
	return m.width
}

// Height returns the image height in pixels.
func (m *Image) Height() int {
	return m.height
}

// Format returns the decoded source format.
func (m *Image) Format() Format {
	return m.format
}

// FrameCount returns the number of animation frames; 1 for still images.
func (m *Image) FrameCount() int {
	return len(m.frames)
}

// FrameIndex returns the current frame cursor.
func (m *Image) FrameIndex() int {
	return m.index
}

// Delay returns the display duration of the current frame. Still images
// report zero.
func (m *Image) Delay() time.Duration {
	return m.frames[m.index].delay
}

// Advance moves the frame cursor to the next frame, wrapping to the first
// after the last.
func (m *Image) Advance() {
	m.index = (m.index + 1) % len(m.frames)
}

// LoopCount returns the animation loop count: 0 means loop forever, -1 means
// play once. Still images report 0.
func (m *Image) LoopCount() int {
	return m.loopCount
}

// IsOpaque reports whether every pixel of every frame is fully opaque.
func (m *Image) IsOpaque() bool {
	return m.opaque
}

// ByteCount returns the total pixel bytes held by all frames.
func (m *Image) ByteCount() int {
	n := 0
	for _, f := range m.frames {
		n += len(f.pix)
	}
	return n
}

// Render blits the width×height region of the current frame at (srcX, srcY)
// into dst at (dstX, dstY), downsampling by ratio. See CopyPixels for the
// clipping and fill semantics.
func (m *Image) Render(srcX, srcY int, dst *Bitmap, dstX, dstY, width, height, ratio int, fillBlank bool, fillColor uint32) {
	f := m.frames[m.index]
	CopyPixels(dst.Pix, dst.Width, dst.Height, dstX, dstY,
		f.pix, m.width, m.height, srcX, srcY,
		width, height, ratio, fillBlank, fillColor)
}
