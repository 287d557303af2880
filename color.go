package goblit

import "encoding/binary"

// Pixel is one RGBA pixel in native memory layout: byte 0 is red, byte 1 is
// green, byte 2 is blue, byte 3 is alpha, exactly as stored in a pixel buffer.
type Pixel [4]byte

// PackPixel builds a native-layout pixel from its channel values.
func PackPixel(r, g, b, a uint8) Pixel {
	return Pixel{r, g, b, a}
}

// RGBA returns the pixel's channel values.
func (p Pixel) RGBA() (r, g, b, a uint8) {
	return p[0], p[1], p[2], p[3]
}

// nativeLittleEndian reports whether the host stores the least significant
// byte of an integer first. Computed once at package initialization.
var nativeLittleEndian = func() bool {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], 1)
	return b[0] == 1
}()

// ConvertColor converts an externally supplied color word into native pixel
// layout. The external convention is a 32-bit 0xAARRGGBB value: alpha in the
// most significant byte, blue in the least. The word's in-memory bytes are
// permuted according to host endianness so that the result unpacks to the
// intended R, G, B, A regardless of platform.
func ConvertColor(external uint32) Pixel {
	var w [4]byte
	binary.NativeEndian.PutUint32(w[:], external)

	if nativeLittleEndian {
		// Memory order B, G, R, A.
		return Pixel{w[2], w[1], w[0], w[3]}
	}
	// Memory order A, R, G, B.
	return Pixel{w[1], w[2], w[3], w[0]}
}
