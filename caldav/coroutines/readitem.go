package coroutines

import (
	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/item"
)

// ReadCalendarItem fetches a single item via GET /<calendar_id>/<item_id>.ics
// and parses the body as iCalendar (spec.md §4.5).
type ReadCalendarItem struct {
	calendarID string
	id         string
	send       *Send[[]byte]
}

// NewReadCalendarItem builds a ReadCalendarItem ready to drive via
// Resume(nil).
func NewReadCalendarItem(config *caldav.Config, calendarID, itemID string) *ReadCalendarItem {
	path := "/" + calendarID + "/" + itemID + ".ics"
	req := caldav.Get(config, path)
	wireReq := httpwire.Request{Method: req.Method, URI: req.URI, Headers: req.Headers}
	return &ReadCalendarItem{calendarID: calendarID, id: itemID, send: NewSend(wireReq, DecodeRaw)}
}

// ReadCalendarItemResult is returned by ReadCalendarItem.Resume.
type ReadCalendarItemResult struct {
	Io  *ioeffect.StreamIo
	Ok  *item.CalendarItem
	Err error
}

// Resume advances the exchange.
func (r *ReadCalendarItem) Resume(arg *ioeffect.StreamIoResult) ReadCalendarItemResult {
	result := r.send.Resume(arg)
	if result.Err != nil {
		return ReadCalendarItemResult{Err: result.Err}
	}
	if result.Io != nil {
		return ReadCalendarItemResult{Io: result.Io}
	}

	cal, err := item.Parse(string(result.Ok.Body))
	if err != nil {
		return ReadCalendarItemResult{Err: err}
	}

	return ReadCalendarItemResult{Ok: &item.CalendarItem{ID: r.id, CalendarID: r.calendarID, Ical: cal}}
}
