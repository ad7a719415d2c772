package coroutines

import (
	"net/url"

	"github.com/beevik/etree"

	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

const calendarHomeSetBody = `<?xml version="1.0" encoding="utf-8" ?>
<D:propfind xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav">
  <D:prop>
    <C:calendar-home-set />
  </D:prop>
</D:propfind>`

type calendarHomeSetProp struct {
	CalendarHomeSet caldav.HrefProp
}

func decodeCalendarHomeSetProp(elem *etree.Element) (calendarHomeSetProp, error) {
	return calendarHomeSetProp{
		CalendarHomeSet: caldav.HrefProp{Href: caldav.HrefIn(elem, "calendar-home-set")},
	}, nil
}

// CalendarHomeSet discovers the calendar-home-set collection for a
// principal via PROPFIND (RFC 4791 §6.2.1). Construct against the
// principal's own URL, typically the result of CurrentUserPrincipal.
type CalendarHomeSet struct {
	follow *FollowRedirects[caldav.Multistatus[calendarHomeSetProp]]
	base   *url.URL
}

// NewCalendarHomeSet builds a CalendarHomeSet ready to drive via Resume(nil).
func NewCalendarHomeSet(config *caldav.Config) *CalendarHomeSet {
	req := caldav.Propfind(config, "/")
	wireReq := httpwire.Request{
		Method:  req.Method,
		URI:     req.URI,
		Headers: req.Headers,
		Body:    []byte(calendarHomeSetBody),
	}
	decode := func(body []byte) (caldav.Multistatus[calendarHomeSetProp], error) {
		return caldav.DecodeMultistatus(body, decodeCalendarHomeSetProp)
	}
	return &CalendarHomeSet{follow: NewFollowRedirects(wireReq, decode), base: req.URI}
}

// CalendarHomeSetResult is returned by CalendarHomeSet.Resume.
type CalendarHomeSetResult struct {
	Io    *ioeffect.StreamIo
	Ok    *url.URL
	Err   error
	Reset *url.URL
}

// Resume advances the exchange.
func (c *CalendarHomeSet) Resume(arg *ioeffect.StreamIoResult) CalendarHomeSetResult {
	result := c.follow.Resume(arg)
	if result.Err != nil {
		return CalendarHomeSetResult{Err: result.Err}
	}
	if result.Io != nil {
		return CalendarHomeSetResult{Io: result.Io}
	}
	if result.Reset != nil {
		return CalendarHomeSetResult{Reset: result.Reset}
	}

	for _, resp := range result.Ok.Body.Responses {
		if status, ok := resp.Status.Get(); ok && !status.IsSuccess() {
			continue
		}
		for _, ps := range resp.Propstats {
			if !ps.Status.IsSuccess() {
				continue
			}
			if ps.Prop.CalendarHomeSet.Href == "" {
				continue
			}
			uri, err := ps.Prop.CalendarHomeSet.URI(c.base)
			if err != nil {
				return CalendarHomeSetResult{Err: err}
			}
			return CalendarHomeSetResult{Ok: uri}
		}
	}

	return CalendarHomeSetResult{}
}
