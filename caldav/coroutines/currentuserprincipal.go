package coroutines

import (
	"net/url"

	"github.com/beevik/etree"

	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

const currentUserPrincipalBody = `<?xml version="1.0" encoding="utf-8" ?>
<D:propfind xmlns:D="DAV:">
  <D:prop>
    <D:current-user-principal />
  </D:prop>
</D:propfind>`

type currentUserPrincipalProp struct {
	CurrentUserPrincipal caldav.HrefProp
}

func decodeCurrentUserPrincipalProp(elem *etree.Element) (currentUserPrincipalProp, error) {
	return currentUserPrincipalProp{
		CurrentUserPrincipal: caldav.HrefProp{Href: caldav.HrefIn(elem, "current-user-principal")},
	}, nil
}

// CurrentUserPrincipal discovers the authenticated user's principal URL via
// PROPFIND on the server root (RFC 5397).
type CurrentUserPrincipal struct {
	follow *FollowRedirects[caldav.Multistatus[currentUserPrincipalProp]]
	base   *url.URL
}

// NewCurrentUserPrincipal builds a CurrentUserPrincipal ready to drive via
// Resume(nil).
func NewCurrentUserPrincipal(config *caldav.Config) *CurrentUserPrincipal {
	req := caldav.Propfind(config, "/").ContentTypeXML()
	wireReq := httpwire.Request{
		Method:  req.Method,
		URI:     req.URI,
		Headers: req.Headers,
		Body:    []byte(currentUserPrincipalBody),
	}
	decode := func(body []byte) (caldav.Multistatus[currentUserPrincipalProp], error) {
		return caldav.DecodeMultistatus(body, decodeCurrentUserPrincipalProp)
	}
	return &CurrentUserPrincipal{
		follow: NewFollowRedirects(wireReq, decode),
		base:   req.URI,
	}
}

// CurrentUserPrincipalResult is returned by CurrentUserPrincipal.Resume.
type CurrentUserPrincipalResult struct {
	Io    *ioeffect.StreamIo
	Ok    *url.URL // nil if the server reported no current-user-principal
	Err   error
	Reset *url.URL
}

// Resume advances the exchange.
func (c *CurrentUserPrincipal) Resume(arg *ioeffect.StreamIoResult) CurrentUserPrincipalResult {
	result := c.follow.Resume(arg)
	if result.Err != nil {
		return CurrentUserPrincipalResult{Err: result.Err}
	}
	if result.Io != nil {
		return CurrentUserPrincipalResult{Io: result.Io}
	}
	if result.Reset != nil {
		return CurrentUserPrincipalResult{Reset: result.Reset}
	}

	for _, resp := range result.Ok.Body.Responses {
		if status, ok := resp.Status.Get(); ok && !status.IsSuccess() {
			continue
		}
		for _, ps := range resp.Propstats {
			if !ps.Status.IsSuccess() {
				continue
			}
			if ps.Prop.CurrentUserPrincipal.Href == "" {
				continue
			}
			uri, err := ps.Prop.CurrentUserPrincipal.URI(c.base)
			if err != nil {
				return CurrentUserPrincipalResult{Err: err}
			}
			return CurrentUserPrincipalResult{Ok: uri}
		}
	}

	return CurrentUserPrincipalResult{}
}
