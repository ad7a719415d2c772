package coroutines

import (
	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/item"
)

// CreateCalendarItem creates (or, via UpdateCalendarItem, overwrites) an
// item with PUT /<calendar_id>/<item_id>.ics, Content-Type: text/calendar
// (spec.md §4.5). PUT is idempotent create-or-replace, so CreateCalendarItem
// and UpdateCalendarItem share this implementation.
type CreateCalendarItem struct {
	send *Send[Empty]
}

// NewCreateCalendarItem builds a CreateCalendarItem ready to drive via
// Resume(nil).
func NewCreateCalendarItem(config *caldav.Config, it item.CalendarItem) *CreateCalendarItem {
	path := "/" + it.CalendarID + "/" + it.ID + ".ics"
	req := caldav.Put(config, path).ContentTypeIcal()
	wireReq := httpwire.Request{Method: req.Method, URI: req.URI, Headers: req.Headers, Body: it.Bytes()}
	return &CreateCalendarItem{send: NewSend(wireReq, DecodeEmpty)}
}

// CreateCalendarItemResult is returned by CreateCalendarItem.Resume.
type CreateCalendarItemResult struct {
	Io  *ioeffect.StreamIo
	Ok  bool
	Err error
}

// Resume advances the exchange.
func (c *CreateCalendarItem) Resume(arg *ioeffect.StreamIoResult) CreateCalendarItemResult {
	result := c.send.Resume(arg)
	if result.Err != nil {
		return CreateCalendarItemResult{Err: result.Err}
	}
	if result.Io != nil {
		return CreateCalendarItemResult{Io: result.Io}
	}
	return CreateCalendarItemResult{Ok: true}
}

// UpdateCalendarItem overwrites an existing item; see CreateCalendarItem.
type UpdateCalendarItem = CreateCalendarItem

// NewUpdateCalendarItem builds an UpdateCalendarItem ready to drive via
// Resume(nil).
func NewUpdateCalendarItem(config *caldav.Config, it item.CalendarItem) *UpdateCalendarItem {
	return NewCreateCalendarItem(config, it)
}
