package httpwire

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/iocoro/caldav/ioeffect"
)

// FollowHTTPRedirects wraps SendHTTP and resolves a 3xx Location header into
// either a same-connection retry (scheme and authority unchanged) or a Reset
// asking the caller to open a new connection elsewhere.
type FollowHTTPRedirects struct {
	send     *SendHTTP
	req      Request
	redirect int
}

const maxRedirects = 5

// NewFollowHTTPRedirects starts a redirect-following exchange for req.
func NewFollowHTTPRedirects(req Request) *FollowHTTPRedirects {
	return &FollowHTTPRedirects{send: NewSendHTTP(req), req: req}
}

// FollowHTTPRedirectsResult is the outcome of one Resume call.
type FollowHTTPRedirectsResult struct {
	Io       *ioeffect.StreamIo
	Response *Response

	// Reset is set when the redirect target requires a new connection
	// (different scheme or host); the caller must open one and resume the
	// coroutine with a StreamConnect result before further reads/writes.
	Reset *url.URL

	Err error
}

// Resume advances the exchange, following same-connection redirects
// transparently and surfacing cross-connection ones via Reset.
func (f *FollowHTTPRedirects) Resume(arg *ioeffect.StreamIoResult) FollowHTTPRedirectsResult {
	result := f.send.Resume(arg)
	if result.Err != nil {
		return FollowHTTPRedirectsResult{Err: result.Err}
	}
	if result.Io != nil {
		return FollowHTTPRedirectsResult{Io: result.Io}
	}

	resp := result.Response
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return FollowHTTPRedirectsResult{Response: resp}
	}

	if f.redirect >= maxRedirects {
		return FollowHTTPRedirectsResult{Err: fmt.Errorf("httpwire: too many redirects (%d)", f.redirect)}
	}

	location := resp.Header("Location")
	if location == "" {
		return FollowHTTPRedirectsResult{Err: fmt.Errorf("httpwire: %d redirect missing Location header", resp.StatusCode)}
	}
	target, err := url.Parse(location)
	if err != nil {
		return FollowHTTPRedirectsResult{Err: fmt.Errorf("httpwire: invalid redirect Location %q: %w", location, err)}
	}
	target = f.req.URI.ResolveReference(target)

	prevURI := f.req.URI
	sameConn := (target.Scheme == "" || target.Scheme == prevURI.Scheme) &&
		(target.Host == "" || target.Host == prevURI.Host)

	f.redirect++
	nextReq := f.req
	nextReq.URI = target
	f.req = nextReq
	f.send = NewSendHTTP(nextReq)

	if sameConn {
		return f.Resume(nil)
	}

	return FollowHTTPRedirectsResult{Reset: target}
}

// StatusIsSuccess reports whether code falls in [200, 300), the numeric
// check used throughout this package instead of matching on the reason
// phrase text.
func StatusIsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// FormatStatusCode renders code as the three-digit decimal form embedded in
// Status.Raw strings elsewhere in this module.
func FormatStatusCode(code int) string {
	return strconv.Itoa(code)
}
