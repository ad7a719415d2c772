package coroutines

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

// WellKnownOk is the terminal result of WellKnown.
type WellKnownOk struct {
	URI       *url.URL
	KeepAlive bool
}

// WellKnownResult is returned by WellKnown.Resume.
type WellKnownResult struct {
	Io  *ioeffect.StreamIo
	Ok  *WellKnownOk
	Err error
}

// WellKnown requests config's URI with method (GET by default, per RFC 6764)
// and expects a 3xx redirect to the server's real CalDAV root, returning
// that target without following it (the caller decides whether and how to
// reconnect, since the target may be cross-host).
type WellKnown struct {
	send *httpwire.SendHTTP
	base *url.URL
}

// NewWellKnown builds a WellKnown ready to drive via Resume(nil). An empty
// method defaults to GET.
func NewWellKnown(config *caldav.Config, method string) *WellKnown {
	if method == "" {
		method = http.MethodGet
	}
	req := caldav.NewRequest(config, method, "")
	return &WellKnown{
		send: httpwire.NewSendHTTP(httpwire.Request{Method: req.Method, URI: req.URI, Headers: req.Headers}),
		base: req.URI,
	}
}

// Resume advances the exchange.
func (w *WellKnown) Resume(arg *ioeffect.StreamIoResult) WellKnownResult {
	result := w.send.Resume(arg)
	if result.Err != nil {
		return WellKnownResult{Err: result.Err}
	}
	if result.Io != nil {
		return WellKnownResult{Io: result.Io}
	}

	resp := result.Response
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return WellKnownResult{Err: fmt.Errorf("caldav: expected a well-known redirection, got %d %s: %s", resp.StatusCode, resp.Reason, string(resp.Body))}
	}

	location := resp.Header("Location")
	if location == "" {
		return WellKnownResult{Err: fmt.Errorf("caldav: well-known response missing Location header")}
	}
	if !isASCII(location) {
		return WellKnownResult{Err: fmt.Errorf("caldav: well-known Location header is not ASCII: %q", location)}
	}
	target, err := url.Parse(location)
	if err != nil {
		return WellKnownResult{Err: fmt.Errorf("caldav: invalid redirect Location %q: %w", location, err)}
	}
	target = w.base.ResolveReference(target)

	sameScheme := target.Scheme == "" || target.Scheme == w.base.Scheme
	sameAuthority := target.Host == "" || target.Host == w.base.Host

	return WellKnownResult{Ok: &WellKnownOk{URI: target, KeepAlive: resp.KeepAlive && sameScheme && sameAuthority}}
}

// isASCII reports whether s contains only ASCII bytes, the RFC 6764 §6
// requirement on well-known's Location header that url.Parse alone does not
// enforce (it happily accepts non-ASCII runes in a path or host).
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
