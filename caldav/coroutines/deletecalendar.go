package coroutines

import (
	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

// DeleteCalendar deletes a calendar collection via DELETE. Unlike most other
// workflows, a non-2xx response is not itself an error: the outcome is
// reported as a boolean success flag (spec.md §4.5).
type DeleteCalendar struct {
	send *httpwire.SendHTTP
}

// NewDeleteCalendar builds a DeleteCalendar ready to drive via Resume(nil).
func NewDeleteCalendar(config *caldav.Config, id string) *DeleteCalendar {
	req := caldav.Delete(config, id).ContentTypeXML()
	wireReq := httpwire.Request{Method: req.Method, URI: req.URI, Headers: req.Headers}
	return &DeleteCalendar{send: httpwire.NewSendHTTP(wireReq)}
}

// DeleteCalendarResult is returned by DeleteCalendar.Resume.
type DeleteCalendarResult struct {
	Io  *ioeffect.StreamIo
	Ok  *bool
	Err error
}

// Resume advances the exchange.
func (d *DeleteCalendar) Resume(arg *ioeffect.StreamIoResult) DeleteCalendarResult {
	result := d.send.Resume(arg)
	if result.Err != nil {
		return DeleteCalendarResult{Err: result.Err}
	}
	if result.Io != nil {
		return DeleteCalendarResult{Io: result.Io}
	}
	ok := httpwire.StatusIsSuccess(result.Response.StatusCode)
	return DeleteCalendarResult{Ok: &ok}
}
