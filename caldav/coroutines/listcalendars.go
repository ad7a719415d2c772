package coroutines

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/calendar"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

const listCalendarsBody = `<?xml version="1.0" encoding="utf-8" ?>
<D:propfind xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav" xmlns:I="http://apple.com/ns/ical/">
  <D:prop>
    <D:resourcetype />
    <D:displayname />
    <C:calendar-description />
    <I:calendar-color />
  </D:prop>
</D:propfind>`

type listCalendarsProp struct {
	IsCalendar  bool
	DisplayName string
	HasName     bool
	Description string
	HasDesc     bool
	Color       string
	HasColor    bool
}

func decodeListCalendarsProp(elem *etree.Element) (listCalendarsProp, error) {
	var p listCalendarsProp

	if rtype := ChildByLocalName(elem, "resourcetype"); rtype != nil {
		p.IsCalendar = ChildByLocalName(rtype, "calendar") != nil
	}
	if name, ok := caldav.TextProp(elem, "displayname").Get(); ok {
		p.DisplayName, p.HasName = name, true
	}
	if desc, ok := caldav.TextProp(elem, "calendar-description").Get(); ok {
		p.Description, p.HasDesc = desc, true
	}
	if color, ok := caldav.TextProp(elem, "calendar-color").Get(); ok {
		p.Color, p.HasColor = color, true
	}

	return p, nil
}

// ListCalendars lists the calendar collections directly inside a
// calendar-home-set collection via a depth-1 PROPFIND (RFC 4791 §5.1).
type ListCalendars struct {
	send *Send[caldav.Multistatus[listCalendarsProp]]
}

// NewListCalendars builds a ListCalendars ready to drive via Resume(nil).
func NewListCalendars(config *caldav.Config) *ListCalendars {
	req := caldav.Propfind(config, "").Depth(1)
	wireReq := httpwire.Request{
		Method:  req.Method,
		URI:     req.URI,
		Headers: req.Headers,
		Body:    []byte(listCalendarsBody),
	}
	decode := func(body []byte) (caldav.Multistatus[listCalendarsProp], error) {
		return caldav.DecodeMultistatus(body, decodeListCalendarsProp)
	}
	return &ListCalendars{send: NewSend(wireReq, decode)}
}

// ListCalendarsResult is returned by ListCalendars.Resume.
type ListCalendarsResult struct {
	Io  *ioeffect.StreamIo
	Ok  []calendar.Calendar
	Err error
}

// Resume advances the exchange.
func (l *ListCalendars) Resume(arg *ioeffect.StreamIoResult) ListCalendarsResult {
	result := l.send.Resume(arg)
	if result.Err != nil {
		return ListCalendarsResult{Err: result.Err}
	}
	if result.Io != nil {
		return ListCalendarsResult{Io: result.Io}
	}

	var calendars []calendar.Calendar

	for _, resp := range result.Ok.Body.Responses {
		if status, ok := resp.Status.Get(); ok && !status.IsSuccess() {
			continue
		}

		id := lastPathSegment(resp.Href)
		cal := calendar.Calendar{ID: id}
		isCalendar := false

		for _, ps := range resp.Propstats {
			if !ps.Status.IsSuccess() {
				continue
			}
			if ps.Prop.IsCalendar {
				isCalendar = true
			}
			if ps.Prop.HasName && strings.TrimSpace(ps.Prop.DisplayName) != "" {
				cal.DisplayName = ps.Prop.DisplayName
			}
			if ps.Prop.HasDesc && strings.TrimSpace(ps.Prop.Description) != "" {
				cal.Description = ps.Prop.Description
			}
			if ps.Prop.HasColor && calendar.ValidColor(ps.Prop.Color) {
				cal.Color = ps.Prop.Color
			}
		}

		if isCalendar {
			calendars = append(calendars, cal)
		}
	}

	return ListCalendarsResult{Ok: calendars}
}

// lastPathSegment returns the final non-empty path segment of href, the id
// extraction rule shared by ListCalendars and ListCalendarItems.
func lastPathSegment(href string) string {
	trimmed := strings.TrimRight(href, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
