package goblit

// floorMultiple rounds n down to the nearest multiple of m.
func floorMultiple(n, m int) int {
	return n - n%m
}

// ceilMultiple rounds n up to the nearest multiple of m.
func ceilMultiple(n, m int) int {
	if r := n % m; r != 0 {
		return n - r + m
	}
	return n
}

// avgStep folds one channel sample into the quotient/remainder accumulator
// pair. After count samples, *q equals floor(sum/count) exactly, without the
// running sum ever being materialized.
func avgStep(v, count int, q, r *int) {
	*q += v / count
	*r += v % count
	if *r >= count {
		*q++
		*r -= count
	}
}

// averageBlock reduces the ratio×ratio block whose top-left pixel starts at
// src[off] to a single pixel, averaging each channel independently. srcW is
// the source buffer's row width in pixels. ratio must be at least 2; the
// ratio == 1 case is handled by copyRow directly.
func averageBlock(src []byte, off, srcW, ratio int) Pixel {
	count := ratio * ratio
	var r, g, b, a int
	var rr, gr, br, ar int

	for i := 0; i < ratio; i++ {
		row := off + i*srcW*4
		for j := 0; j < ratio; j++ {
			p := row + j*4
			avgStep(int(src[p]), count, &r, &rr)
			avgStep(int(src[p+1]), count, &g, &gr)
			avgStep(int(src[p+2]), count, &b, &br)
			avgStep(int(src[p+3]), count, &a, &ar)
		}
	}

	return Pixel{uint8(r), uint8(g), uint8(b), uint8(a)}
}

// copyRow writes count output pixels at dst[dstOff] from the source row
// starting at src[srcOff]. With ratio == 1 it is a byte-exact copy; otherwise
// each output pixel is the block average of the next ratio×ratio source block.
// count is the number of output pixels, not source pixels.
func copyRow(dst []byte, dstOff int, src []byte, srcOff, srcW, count, ratio int) {
	if ratio == 1 {
		copy(dst[dstOff:dstOff+count*4], src[srcOff:srcOff+count*4])
		return
	}
	for i := 0; i < count; i++ {
		p := averageBlock(src, srcOff+i*ratio*4, srcW, ratio)
		copy(dst[dstOff+i*4:dstOff+i*4+4], p[:])
	}
}

// fillPixels writes count copies of p starting at dst[off], doubling the
// copied span each pass.
func fillPixels(dst []byte, off, count int, p Pixel) {
	if count <= 0 {
		return
	}
	end := off + count*4
	copy(dst[off:off+4], p[:])
	for n := 4; off+n < end; n *= 2 {
		copy(dst[off+n:end], dst[off:off+n])
	}
}

// CopyPixels copies the width×height source rectangle at (srcX, srcY) into
// the destination buffer at (dstX, dstY), downsampling by integer ratio via
// block averaging when ratio > 1. Both buffers are flat RGBA, 4 bytes per
// pixel, row-major with stride equal to their width, and must be sized
// exactly w*h*4.
//
// Any of the spatial arguments may be negative or oversized; the copied
// rectangle is clipped to the largest ratio-aligned region valid in both
// buffers. When fillBlank is set, fillColor (external 0xAARRGGBB convention)
// is converted once to native layout and every destination pixel outside the
// copied rectangle is set to it; if clipping leaves nothing to copy, the
// entire destination is filled. When fillBlank is false and nothing can be
// copied, the destination is left completely untouched; callers must not
// assume any initialization in that case.
func CopyPixels(dst []byte, dstW, dstH, dstX, dstY int,
	src []byte, srcW, srcH, srcX, srcY int,
	width, height, ratio int, fillBlank bool, fillColor uint32) {

	var fill Pixel
	if fillBlank {
		fill = ConvertColor(fillColor)
	}

	ok := copyPixelsClipped(dst, dstW, dstH, dstX, dstY,
		src, srcW, srcH, srcX, srcY,
		width, height, ratio, fillBlank, fill)
	if !ok && fillBlank {
		fillPixels(dst, 0, dstW*dstH, fill)
	}
}

func copyPixelsClipped(dst []byte, dstW, dstH, dstX, dstY int,
	src []byte, srcW, srcH, srcX, srcY int,
	width, height, ratio int, fillBlank bool, fill Pixel) bool {

	if ratio <= 0 {
		return false
	}

	// Keep width and height multiples of ratio.
	width = floorMultiple(width, ratio)
	height = floorMultiple(height, ratio)

	// A single block must fit.
	if ratio > width || ratio > height {
		return false
	}

	// Clip negative offsets on the x axis.
	if srcX < 0 {
		n := ceilMultiple(-srcX, ratio)
		srcX += n
		dstX += n / ratio
		width -= n
	}
	if dstX < 0 {
		n := -dstX * ratio
		srcX += n
		dstX = 0
		width -= n
	}
	if width <= 0 {
		return false
	}

	// Clip negative offsets on the y axis.
	if srcY < 0 {
		n := ceilMultiple(-srcY, ratio)
		srcY += n
		dstY += n / ratio
		height -= n
	}
	if dstY < 0 {
		n := -dstY * ratio
		srcY += n
		dstY = 0
		height -= n
	}
	if height <= 0 {
		return false
	}

	// Clip against the far edges, keeping ratio alignment.
	if over := srcX + width - srcW; over > 0 {
		width -= ceilMultiple(over, ratio)
	}
	if over := dstX + width/ratio - dstW; over > 0 {
		width -= over * ratio
	}
	if width <= 0 {
		return false
	}

	if over := srcY + height - srcH; over > 0 {
		height -= ceilMultiple(over, ratio)
	}
	if over := dstY + height/ratio - dstH; over > 0 {
		height -= over * ratio
	}
	if height <= 0 {
		return false
	}

	outW := width / ratio
	outRows := height / ratio
	srcPos := (srcY*srcW + srcX) * 4
	srcStride := srcW * 4 * ratio

	// Everything before the first copied pixel.
	lead := dstY*dstW + dstX
	if fillBlank {
		fillPixels(dst, 0, lead, fill)
	}
	dstPos := lead * 4

	// First row.
	copyRow(dst, dstPos, src, srcPos, srcW, outW, ratio)
	dstPos += outW * 4
	srcPos += srcStride

	// Remaining rows; the gap wraps from the end of one copied row to the
	// start of the next.
	gap := dstW - outW
	for line := 1; line < outRows; line++ {
		if fillBlank && gap != 0 {
			fillPixels(dst, dstPos, gap, fill)
		}
		dstPos += gap * 4
		copyRow(dst, dstPos, src, srcPos, srcW, outW, ratio)
		dstPos += outW * 4
		srcPos += srcStride
	}

	// Everything after the last copied pixel.
	if fillBlank {
		fillPixels(dst, dstPos, dstW*dstH-dstPos/4, fill)
	}

	return true
}
