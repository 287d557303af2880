package goblit

import "sync"

// Buffer pools for transient byte slices: HTTP range windows and frame
// compositing scratch.

type byteSlicePool struct {
	// Small buffers (up to 64KB) - range-request windows
	small sync.Pool
	// Medium buffers (up to 256KB) - 256x256 RGBA frames
	medium sync.Pool
	// Large buffers (up to 1MB) - 512x512 RGBA frames
	large sync.Pool
}

const (
	smallBufferSize  = 64 * 1024
	mediumBufferSize = 256 * 1024
	largeBufferSize  = 1024 * 1024
)

var bufferPool = &byteSlicePool{
	small: sync.Pool{
		New: func() interface{} {
			buf := make([]byte, smallBufferSize)
			return &buf
		},
	},
	medium: sync.Pool{
		New: func() interface{} {
			buf := make([]byte, mediumBufferSize)
			return &buf
		},
	},
	large: sync.Pool{
		New: func() interface{} {
			buf := make([]byte, largeBufferSize)
			return &buf
		},
	},
}

// GetBuffer returns a byte slice of the requested length from the pool.
// Its contents are undefined. Call PutBuffer when done.
func GetBuffer(size int) []byte {
	if size <= smallBufferSize {
		bufPtr := bufferPool.small.Get().(*[]byte)
		return (*bufPtr)[:size]
	}
	if size <= mediumBufferSize {
		bufPtr := bufferPool.medium.Get().(*[]byte)
		return (*bufPtr)[:size]
	}
	if size <= largeBufferSize {
		bufPtr := bufferPool.large.Get().(*[]byte)
		return (*bufPtr)[:size]
	}
	// Very large buffers are allocated directly.
	return make([]byte, size)
}

// PutBuffer returns a buffer obtained from GetBuffer to the pool. The buffer
// must not be used afterwards.
func PutBuffer(buf []byte) {
	c := cap(buf)
	if c == 0 {
		return
	}

	buf = buf[:c]

	switch c {
	case smallBufferSize:
		bufferPool.small.Put(&buf)
	case mediumBufferSize:
		bufferPool.medium.Put(&buf)
	case largeBufferSize:
		bufferPool.large.Put(&buf)
	}
	// Non-standard sizes are left for the GC.
}
