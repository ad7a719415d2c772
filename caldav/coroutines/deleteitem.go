package coroutines

import (
	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

// DeleteCalendarItem deletes an item via DELETE
// /<calendar_id>/<item_id>.ics. Success is a bare 204, or any other 2xx
// (spec.md §4.5); like DeleteCalendar, a non-2xx is reported as false, not
// an error.
type DeleteCalendarItem struct {
	send *httpwire.SendHTTP
}

// NewDeleteCalendarItem builds a DeleteCalendarItem ready to drive via
// Resume(nil).
func NewDeleteCalendarItem(config *caldav.Config, calendarID, itemID string) *DeleteCalendarItem {
	path := "/" + calendarID + "/" + itemID + ".ics"
	req := caldav.Delete(config, path).ContentTypeXML()
	wireReq := httpwire.Request{Method: req.Method, URI: req.URI, Headers: req.Headers}
	return &DeleteCalendarItem{send: httpwire.NewSendHTTP(wireReq)}
}

// DeleteCalendarItemResult is returned by DeleteCalendarItem.Resume.
type DeleteCalendarItemResult struct {
	Io  *ioeffect.StreamIo
	Ok  *bool
	Err error
}

// Resume advances the exchange.
func (d *DeleteCalendarItem) Resume(arg *ioeffect.StreamIoResult) DeleteCalendarItemResult {
	result := d.send.Resume(arg)
	if result.Err != nil {
		return DeleteCalendarItemResult{Err: result.Err}
	}
	if result.Io != nil {
		return DeleteCalendarItemResult{Io: result.Io}
	}
	ok := result.Response.StatusCode == 204 || httpwire.StatusIsSuccess(result.Response.StatusCode)
	return DeleteCalendarItemResult{Ok: &ok}
}
