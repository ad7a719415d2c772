package coroutines

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/calendar"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

const updateCalendarBodyTemplate = `<?xml version="1.0" encoding="utf-8" ?>
<D:propertyupdate xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav" xmlns:I="http://apple.com/ns/ical/">
  <D:set>
    <D:prop>
      %s%s%s
    </D:prop>
  </D:set>
</D:propertyupdate>`

type updateCalendarProp struct {
	DisplayName string
	HasName     bool
	Color       string
	HasColor    bool
	Description string
	HasDesc     bool
}

func decodeUpdateCalendarProp(elem *etree.Element) (updateCalendarProp, error) {
	var p updateCalendarProp
	p.DisplayName, p.HasName = caldav.TextProp(elem, "displayname").Get()
	p.Color, p.HasColor = caldav.TextProp(elem, "calendar-color").Get()
	p.Description, p.HasDesc = caldav.TextProp(elem, "calendar-description").Get()
	return p, nil
}

// UpdateCalendar updates a calendar collection's metadata via PROPPATCH
// (RFC 4791 §5.3.2), setting only the fields present on cal.
type UpdateCalendar struct {
	send *Send[caldav.MkcolResponse[updateCalendarProp]]
}

// NewUpdateCalendar builds an UpdateCalendar ready to drive via Resume(nil).
func NewUpdateCalendar(config *caldav.Config, cal calendar.Calendar) *UpdateCalendar {
	req := caldav.Proppatch(config, cal.ID).ContentTypeXML()
	body := fmt.Sprintf(updateCalendarBodyTemplate,
		optionalElement("D:displayname", cal.DisplayName),
		optionalElement("I:calendar-color", cal.Color),
		optionalElement("C:calendar-description", cal.Description))

	wireReq := httpwire.Request{Method: req.Method, URI: req.URI, Headers: req.Headers, Body: []byte(body)}
	decode := func(body []byte) (caldav.MkcolResponse[updateCalendarProp], error) {
		return caldav.DecodeMkcolResponse(body, decodeUpdateCalendarProp)
	}
	return &UpdateCalendar{send: NewSend(wireReq, decode)}
}

// UpdateCalendarResult is returned by UpdateCalendar.Resume.
type UpdateCalendarResult struct {
	Io  *ioeffect.StreamIo
	Ok  bool
	Err error
}

// Resume advances the exchange. Per-property propstat failures are not
// surfaced as errors (spec.md §4.5): a successful HTTP exchange always
// yields Ok.
func (u *UpdateCalendar) Resume(arg *ioeffect.StreamIoResult) UpdateCalendarResult {
	result := u.send.Resume(arg)
	if result.Err != nil {
		return UpdateCalendarResult{Err: result.Err}
	}
	if result.Io != nil {
		return UpdateCalendarResult{Io: result.Io}
	}
	return UpdateCalendarResult{Ok: true}
}
