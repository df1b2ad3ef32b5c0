package middleware

import (
	"net/http"
	"sync/atomic"
)

// ResponseWriter wraps http.ResponseWriter to capture the status code and
// the number of body bytes written, for access logging.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode int32
	written    int64
}

// NewResponseWriter wraps w. The status defaults to 200, matching net/http's
// behavior when a handler writes the body without calling WriteHeader.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *ResponseWriter) WriteHeader(code int) {
	atomic.StoreInt32(&rw.statusCode, int32(code))
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(data []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(data)
	if n > 0 {
		atomic.AddInt64(&rw.written, int64(n))
	}
	return n, err
}

// StatusCode returns the response status, 200 if never explicitly set.
func (rw *ResponseWriter) StatusCode() int {
	return int(atomic.LoadInt32(&rw.statusCode))
}

// BytesWritten returns the number of body bytes written so far.
func (rw *ResponseWriter) BytesWritten() int64 {
	return atomic.LoadInt64(&rw.written)
}
