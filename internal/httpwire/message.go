// Package httpwire turns ioeffect.StreamIo results into parsed HTTP/1.1
// messages and vice versa, one resume transition at a time. It never owns a
// socket: every step either asks the caller to perform exactly one stream
// effect or returns a finished Request/Response.
package httpwire

import (
	"net/http"
	"net/url"
)

// Request is the wire form of an outbound HTTP/1.1 request: method, request
// target, headers, and a fully-buffered body (this codec doesn't stream
// request bodies; CalDAV request/response bodies are small XML/iCalendar
// documents).
type Request struct {
	Method  string
	URI     *url.URL
	Headers http.Header
	Body    []byte
}

// Response is the wire form of a decoded HTTP/1.1 response.
type Response struct {
	StatusCode int
	Reason     string
	Headers    http.Header
	Body       []byte

	// KeepAlive reports whether the connection can be reused for another
	// request: true unless the response carried "Connection: close".
	KeepAlive bool
}

// Header returns the first value of key, matched case-insensitively per RFC
// 7230, or "" if absent.
func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}
