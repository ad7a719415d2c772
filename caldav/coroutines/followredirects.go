package coroutines

import (
	"fmt"
	"net/url"

	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

// FollowRedirectsResult is returned by FollowRedirects[T].Resume.
type FollowRedirectsResult[T any] struct {
	Io    *ioeffect.StreamIo
	Ok    *SendOk[T]
	Err   error
	Reset *url.URL
}

// FollowRedirects wraps Send[T], resolving 3xx responses transparently when
// possible and surfacing a Reset when the redirect target needs a new
// connection. Used for WellKnown-adjacent discovery requests, which may be
// redirected cross-host (spec.md §4.2).
type FollowRedirects[T any] struct {
	send   *httpwire.FollowHTTPRedirects
	decode Decode[T]
}

// NewFollowRedirects builds a FollowRedirects ready to drive via Resume(nil).
func NewFollowRedirects[T any](req httpwire.Request, decode Decode[T]) *FollowRedirects[T] {
	return &FollowRedirects[T]{send: httpwire.NewFollowHTTPRedirects(req), decode: decode}
}

// Resume advances the exchange.
func (f *FollowRedirects[T]) Resume(arg *ioeffect.StreamIoResult) FollowRedirectsResult[T] {
	result := f.send.Resume(arg)
	if result.Err != nil {
		return FollowRedirectsResult[T]{Err: result.Err}
	}
	if result.Io != nil {
		return FollowRedirectsResult[T]{Io: result.Io}
	}
	if result.Reset != nil {
		return FollowRedirectsResult[T]{Reset: result.Reset}
	}

	resp := result.Response
	if !httpwire.StatusIsSuccess(resp.StatusCode) {
		return FollowRedirectsResult[T]{Err: fmt.Errorf("caldav: http response error %d %s: %s", resp.StatusCode, resp.Reason, string(resp.Body))}
	}

	body, err := f.decode(resp.Body)
	if err != nil {
		return FollowRedirectsResult[T]{Err: err}
	}

	return FollowRedirectsResult[T]{Ok: &SendOk[T]{Response: resp, KeepAlive: resp.KeepAlive, Body: body}}
}
