package goblit

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format identifies a decoded image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// Open decodes an image from a file path or URL. It automatically detects
// whether the input is a URL (starts with http:// or https://) or a file
// path; URLs are read with HTTP range requests. If client is nil a default
// one is used.
func Open(pathOrURL string, client *fasthttp.Client) (*Image, error) {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		rr := NewHTTPRangeReader(pathOrURL, client)
		defer rr.Close()
		return Decode(rr)
	}

	file, err := os.Open(pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode reads an image from r. Animated GIFs decode to one frame per
// animation step; every other supported format (PNG, JPEG, BMP, TIFF, WebP)
// decodes to a single frame.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(6)
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if bytes.HasPrefix(magic, []byte("GIF87a")) || bytes.HasPrefix(magic, []byte("GIF89a")) {
		return decodeGIF(br)
	}

	img, name, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	pix := make([]byte, w*h*4)
	flattenImage(pix, img)

	m := &Image{
		frames: []*frame{{pix: pix}},
		width:  w,
		height: h,
		format: Format(name),
	}
	m.opaque = scanOpaque(m.frames)
	return m, nil
}

// decodeGIF decodes all animation steps, composing each frame onto a
// persistent canvas and honoring the frame disposal modes.
func decodeGIF(r io.Reader) (*Image, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode GIF: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("GIF has no frames")
	}

	w := g.Config.Width
	h := g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w = b.Max.X
		h = b.Max.Y
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	frames := make([]*frame, 0, len(g.Image))

	for i, src := range g.Image {
		region := src.Bounds().Intersect(canvas.Rect)

		disposal := gif.DisposalNone
		if i < len(g.Disposal) {
			disposal = int(g.Disposal[i])
		}

		// The previous-disposal mode restores the canvas region the frame
		// covered, so snapshot it before drawing.
		var saved []byte
		if disposal == gif.DisposalPrevious && !region.Empty() {
			saved = GetBuffer(region.Dx() * region.Dy() * 4)
			copyRegion(saved, region.Dx()*4, canvas, region)
		}

		draw.Draw(canvas, region, src, region.Min, draw.Over)

		pix := make([]byte, w*h*4)
		copy(pix, canvas.Pix)

		var delay time.Duration
		if i < len(g.Delay) {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		frames = append(frames, &frame{pix: pix, delay: delay})

		switch disposal {
		case gif.DisposalBackground:
			clearRegion(canvas, region)
		case gif.DisposalPrevious:
			if saved != nil {
				restoreRegion(canvas, region, saved, region.Dx()*4)
				PutBuffer(saved)
			}
		}
	}

	m := &Image{
		frames:    frames,
		width:     w,
		height:    h,
		format:    FormatGIF,
		loopCount: g.LoopCount,
	}
	m.opaque = scanOpaque(frames)
	return m, nil
}

// copyRegion copies the canvas rows of region into dst, packed at dstStride.
func copyRegion(dst []byte, dstStride int, canvas *image.RGBA, region image.Rectangle) {
	for y := region.Min.Y; y < region.Max.Y; y++ {
		src := canvas.PixOffset(region.Min.X, y)
		copy(dst[(y-region.Min.Y)*dstStride:], canvas.Pix[src:src+dstStride])
	}
}

// restoreRegion writes rows packed at srcStride back into the canvas region.
func restoreRegion(canvas *image.RGBA, region image.Rectangle, src []byte, srcStride int) {
	for y := region.Min.Y; y < region.Max.Y; y++ {
		dst := canvas.PixOffset(region.Min.X, y)
		copy(canvas.Pix[dst:dst+srcStride], src[(y-region.Min.Y)*srcStride:])
	}
}

// clearRegion resets the canvas region to transparent.
func clearRegion(canvas *image.RGBA, region image.Rectangle) {
	for y := region.Min.Y; y < region.Max.Y; y++ {
		off := canvas.PixOffset(region.Min.X, y)
		n := region.Dx() * 4
		row := canvas.Pix[off : off+n]
		for i := range row {
			row[i] = 0
		}
	}
}

// flattenImage converts a decoded image into flat RGBA bytes. Known
// in-memory layouts are copied row by row; anything else goes through the
// generic color interface.
func flattenImage(pix []byte, img image.Image) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	switch src := img.(type) {
	case *image.RGBA:
		copyPix(pix, src.Pix, src.Stride, w, h)
	case *image.NRGBA:
		copyPix(pix, src.Pix, src.Stride, w, h)
	case *image.Gray:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
				off := (y*w + x) * 4
				pix[off] = v
				pix[off+1] = v
				pix[off+2] = v
				pix[off+3] = 255
			}
		}
	default:
		// Frames store straight alpha like the NRGBA fast path; converting
		// through NRGBAModel un-premultiplies whatever the decoder produced.
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				off := (y*w + x) * 4
				pix[off] = c.R
				pix[off+1] = c.G
				pix[off+2] = c.B
				pix[off+3] = c.A
			}
		}
	}
}

// copyPix copies 4-byte pixels row by row, collapsing any source stride
// padding.
func copyPix(dst, src []byte, stride, w, h int) {
	for y := 0; y < h; y++ {
		srcOff := y * stride
		copy(dst[y*w*4:(y+1)*w*4], src[srcOff:srcOff+w*4])
	}
}

// scanOpaque reports whether every alpha byte of every frame is 0xFF.
func scanOpaque(frames []*frame) bool {
	for _, f := range frames {
		for i := 3; i < len(f.pix); i += 4 {
			if f.pix[i] != 0xFF {
				return false
			}
		}
	}
	return true
}
