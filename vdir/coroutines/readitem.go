package coroutines

import (
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/item"
	"github.com/iocoro/caldav/vdir"
)

// ReadCalendarItem reads and parses an item's "<id>.ics" file.
type ReadCalendarItem struct {
	config     *vdir.Config
	calendarID string
	itemID     string
	requested  bool
}

// NewReadCalendarItem builds a ReadCalendarItem ready to drive via
// Resume(nil).
func NewReadCalendarItem(config *vdir.Config, calendarID, itemID string) *ReadCalendarItem {
	return &ReadCalendarItem{config: config, calendarID: calendarID, itemID: itemID}
}

// ReadCalendarItemResult is returned by ReadCalendarItem.Resume.
type ReadCalendarItemResult struct {
	Io  *ioeffect.FsIo
	Ok  *item.CalendarItem
	Err error
}

// Resume advances the operation.
func (r *ReadCalendarItem) Resume(arg *ioeffect.FsIoResult) ReadCalendarItemResult {
	if !r.requested {
		r.requested = true
		return ReadCalendarItemResult{Io: &ioeffect.FsIo{
			Op: ioeffect.FsReadFile, Path: r.config.ItemPath(r.calendarID, r.itemID),
		}}
	}
	if arg.Err != nil {
		return ReadCalendarItemResult{Err: arg.Err}
	}
	cal, err := item.Parse(string(arg.Data))
	if err != nil {
		return ReadCalendarItemResult{Err: err}
	}
	it := item.CalendarItem{ID: r.itemID, CalendarID: r.calendarID, Ical: cal}
	return ReadCalendarItemResult{Ok: &it}
}
