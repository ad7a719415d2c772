package coroutines

import (
	"fmt"

	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/calendar"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

const createCalendarBodyTemplate = `<?xml version="1.0" encoding="utf-8" ?>
<D:mkcol xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav" xmlns:I="http://apple.com/ns/ical/">
  <D:set>
    <D:prop>
      <D:resourcetype><D:collection /><C:calendar /></D:resourcetype>
      %s%s%s
    </D:prop>
  </D:set>
</D:mkcol>`

func optionalElement(tag, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("<%s>%s</%s>", tag, value, tag)
}

// CreateCalendar creates a calendar collection via extended MKCOL (RFC 5689,
// RFC 4791 §5.3.1), setting displayname/calendar-description/calendar-color
// only for the fields present on cal.
type CreateCalendar struct {
	send *Send[Empty]
}

// NewCreateCalendar builds a CreateCalendar ready to drive via Resume(nil).
func NewCreateCalendar(config *caldav.Config, cal calendar.Calendar) *CreateCalendar {
	req := caldav.Mkcol(config, cal.ID).ContentTypeXML()
	body := fmt.Sprintf(createCalendarBodyTemplate,
		optionalElement("D:displayname", cal.DisplayName),
		optionalElement("I:calendar-color", cal.Color),
		optionalElement("C:calendar-description", cal.Description))

	wireReq := httpwire.Request{Method: req.Method, URI: req.URI, Headers: req.Headers, Body: []byte(body)}
	return &CreateCalendar{send: NewSend(wireReq, DecodeEmpty)}
}

// CreateCalendarResult is returned by CreateCalendar.Resume.
type CreateCalendarResult struct {
	Io  *ioeffect.StreamIo
	Ok  bool
	Err error
}

// Resume advances the exchange.
func (c *CreateCalendar) Resume(arg *ioeffect.StreamIoResult) CreateCalendarResult {
	result := c.send.Resume(arg)
	if result.Err != nil {
		return CreateCalendarResult{Err: result.Err}
	}
	if result.Io != nil {
		return CreateCalendarResult{Io: result.Io}
	}
	return CreateCalendarResult{Ok: true}
}
