package goblit

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

// Window size for range-request read-ahead. Image decoders read mostly
// sequentially, so one window covers many small reads.
const defaultWindowSize = 64 * 1024

const userAgent = "goblit/" + Version

// HTTPRangeReader is an io.ReadSeeker over a remote file, fetched with HTTP
// range requests. A single pooled read-ahead window absorbs the small
// sequential reads that image decoders issue.
type HTTPRangeReader struct {
	url    string
	client *fasthttp.Client

	mu       sync.Mutex
	size     int64
	pos      int64
	win      []byte
	winStart int64
	winLen   int
}

// NewHTTPRangeReader creates a range reader for url. If client is nil a
// default one is used.
func NewHTTPRangeReader(url string, client *fasthttp.Client) *HTTPRangeReader {
	if client == nil {
		client = defaultClient()
	}
	rr := &HTTPRangeReader{
		url:      url,
		client:   client,
		winStart: -1,
	}
	rr.size = rr.fetchSize()
	return rr
}

func defaultClient() *fasthttp.Client {
	return &fasthttp.Client{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Size returns the remote file size, or -1 if unknown.
func (rr *HTTPRangeReader) Size() int64 {
	return rr.size
}

// Close releases the read-ahead window. The reader must not be used after
// Close.
func (rr *HTTPRangeReader) Close() error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if rr.win != nil {
		PutBuffer(rr.win)
		rr.win = nil
	}
	rr.winStart = -1
	rr.winLen = 0
	return nil
}

// Read reads from the current position, refilling the read-ahead window from
// the network when the position falls outside it.
func (rr *HTTPRangeReader) Read(p []byte) (int, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.size >= 0 && rr.pos >= rr.size {
		return 0, io.EOF
	}

	if rr.winStart < 0 || rr.pos < rr.winStart || rr.pos >= rr.winStart+int64(rr.winLen) {
		if err := rr.refill(); err != nil {
			return 0, err
		}
	}

	off := int(rr.pos - rr.winStart)
	n := copy(p, rr.win[off:rr.winLen])
	rr.pos += int64(n)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Seek sets the offset for the next Read. The window is kept; a later Read
// outside it refills.
func (rr *HTTPRangeReader) Seek(offset int64, whence int) (int64, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = rr.pos + offset
	case io.SeekEnd:
		if rr.size < 0 {
			return 0, fmt.Errorf("cannot seek from end: remote size unknown")
		}
		pos = rr.size + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative position: %d", pos)
	}
	rr.pos = pos
	return pos, nil
}

// refill fetches one window starting at the current position.
func (rr *HTTPRangeReader) refill() error {
	want := defaultWindowSize
	if rr.size >= 0 && rr.pos+int64(want) > rr.size {
		want = int(rr.size - rr.pos)
	}
	if want <= 0 {
		return io.EOF
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rr.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(userAgent)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", rr.pos, rr.pos+int64(want)-1))

	if err := rr.client.Do(req, resp); err != nil {
		return fmt.Errorf("range request failed: %w", err)
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusNotFound {
		return fmt.Errorf("remote file not found: %s", rr.url)
	}
	// Servers answer ranges past the end with 416. When the size is unknown
	// that is the only end-of-file signal we get.
	if status == fasthttp.StatusRequestedRangeNotSatisfiable {
		return io.EOF
	}
	if status != fasthttp.StatusPartialContent && status != fasthttp.StatusOK {
		return fmt.Errorf("unexpected status code: %d", status)
	}

	body := resp.Body()
	if len(body) == 0 {
		return io.EOF
	}

	// A 200 means the server ignored the Range header and sent the whole
	// file; the window then starts at 0, not at pos.
	start := rr.pos
	if status == fasthttp.StatusOK {
		start = 0
		if rr.size < 0 {
			rr.size = int64(len(body))
		}
	}
	if rr.pos >= start+int64(len(body)) {
		return io.EOF
	}

	if rr.win == nil || cap(rr.win) < len(body) {
		if rr.win != nil {
			PutBuffer(rr.win)
		}
		rr.win = GetBuffer(len(body))
	}
	rr.win = rr.win[:cap(rr.win)]
	rr.winLen = copy(rr.win, body)
	rr.winStart = start
	return nil
}

// fetchSize asks for the remote size with a HEAD request.
func (rr *HTTPRangeReader) fetchSize() int64 {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rr.url)
	req.Header.SetMethod(fasthttp.MethodHead)
	req.Header.SetUserAgent(userAgent)

	if err := rr.client.Do(req, resp); err != nil {
		return -1
	}
	if n := resp.Header.ContentLength(); n > 0 {
		return int64(n)
	}
	return -1
}
