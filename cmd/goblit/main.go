// Command goblit inspects images and produces block-averaged thumbnails.
package main

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/hipposeven/goblit"
)

// CLI defines the command-line interface for goblit.
var CLI struct {
	Info    InfoCmd    `cmd:"" help:"Print image dimensions, format, and frame info"`
	Thumb   ThumbCmd   `cmd:"" help:"Downsample an image by an integer ratio"`
	Frames  FramesCmd  `cmd:"" help:"Extract every animation frame as PNG"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// InfoCmd prints basic image properties.
type InfoCmd struct {
	Input string `arg:"" help:"Image file path or http(s) URL"`
}

func (c *InfoCmd) Run() error {
	m, err := goblit.Open(c.Input, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Size:    %dx%d\n", m.Width(), m.Height())
	fmt.Printf("Format:  %s\n", m.Format())
	fmt.Printf("Frames:  %d\n", m.FrameCount())
	fmt.Printf("Opaque:  %t\n", m.IsOpaque())
	fmt.Printf("Bytes:   %d\n", m.ByteCount())
	return nil
}

// ThumbCmd downsamples an image into a canvas, optionally letterboxed with a
// fill color.
type ThumbCmd struct {
	Input  string `arg:"" help:"Image file path or http(s) URL"`
	Out    string `name:"out" short:"o" default:"thumb.png" help:"Output file (.png or .jpg)"`
	Ratio  int    `default:"2" help:"Downsampling ratio (positive integer)"`
	Width  int    `help:"Canvas width; defaults to image width / ratio"`
	Height int    `help:"Canvas height; defaults to image height / ratio"`
	Fill   string `help:"Canvas fill color as AARRGGBB hex (enables letterbox fill)"`
}

func (c *ThumbCmd) Run() error {
	if c.Ratio <= 0 {
		return fmt.Errorf("ratio must be positive, got %d", c.Ratio)
	}

	m, err := goblit.Open(c.Input, nil)
	if err != nil {
		return err
	}

	w := c.Width
	if w <= 0 {
		w = m.Width() / c.Ratio
	}
	h := c.Height
	if h <= 0 {
		h = m.Height() / c.Ratio
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("canvas %dx%d is empty; image %dx%d is smaller than the ratio", w, h, m.Width(), m.Height())
	}

	fillBlank := c.Fill != ""
	var fillColor uint32
	if fillBlank {
		v, err := strconv.ParseUint(strings.TrimPrefix(c.Fill, "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("invalid fill color %q: %w", c.Fill, err)
		}
		fillColor = uint32(v)
	}

	bm := goblit.NewBitmap(w, h)
	m.Render(0, 0, bm, 0, 0, m.Width(), m.Height(), c.Ratio, fillBlank, fillColor)

	if err := writeImage(bm, c.Out); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d, ratio %d)\n", c.Out, w, h, c.Ratio)
	return nil
}

// FramesCmd writes every animation frame to its own PNG.
type FramesCmd struct {
	Input  string `arg:"" help:"Image file path or http(s) URL"`
	OutDir string `name:"out-dir" default:"." help:"Directory for frame files"`
}

func (c *FramesCmd) Run() error {
	m, err := goblit.Open(c.Input, nil)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	bm := goblit.NewBitmap(m.Width(), m.Height())
	for i := 0; i < m.FrameCount(); i++ {
		m.Render(0, 0, bm, 0, 0, m.Width(), m.Height(), 1, false, 0)

		name := filepath.Join(c.OutDir, fmt.Sprintf("frame_%03d.png", i))
		if err := writeImage(bm, name); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (delay %s)\n", name, m.Delay())

		m.Advance()
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("goblit %s\n", goblit.Version)
	return nil
}

// writeImage encodes a bitmap by output file extension.
func writeImage(bm *goblit.Bitmap, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(out, bm.RGBA(), &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("failed to encode JPEG: %w", err)
		}
	default:
		if err := png.Encode(out, bm.RGBA()); err != nil {
			return fmt.Errorf("failed to encode PNG: %w", err)
		}
	}
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("goblit"),
		kong.Description("Image inspection and block-average downsampling"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
