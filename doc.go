// Package goblit decodes still and animated images into flat RGBA frames and
// blits them into caller-owned pixel buffers, with clipping, integer-ratio
// block-average downsampling, and blank filling.
package goblit

// Version is the library version, also reported by the goblit CLI.
const Version = "0.1.0"
