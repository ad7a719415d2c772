package coroutines

import (
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/vdir"
)

// DeleteCalendarItem removes an item's "<id>.ics" file.
type DeleteCalendarItem struct {
	config     *vdir.Config
	calendarID string
	itemID     string
	requested  bool
}

// NewDeleteCalendarItem builds a DeleteCalendarItem ready to drive via
// Resume(nil).
func NewDeleteCalendarItem(config *vdir.Config, calendarID, itemID string) *DeleteCalendarItem {
	return &DeleteCalendarItem{config: config, calendarID: calendarID, itemID: itemID}
}

// DeleteCalendarItemResult is returned by DeleteCalendarItem.Resume.
type DeleteCalendarItemResult struct {
	Io  *ioeffect.FsIo
	Ok  bool
	Err error
}

// Resume advances the operation.
func (d *DeleteCalendarItem) Resume(arg *ioeffect.FsIoResult) DeleteCalendarItemResult {
	if !d.requested {
		d.requested = true
		return DeleteCalendarItemResult{Io: &ioeffect.FsIo{
			Op: ioeffect.FsRemoveFile, Path: d.config.ItemPath(d.calendarID, d.itemID),
		}}
	}
	if arg.Err != nil {
		return DeleteCalendarItemResult{Err: arg.Err}
	}
	return DeleteCalendarItemResult{Ok: true}
}
