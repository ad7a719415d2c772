package coroutines

import (
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/item"
	"github.com/iocoro/caldav/vdir"
)

// CreateCalendarItem writes an item's "<id>.ics" file, overwriting any
// existing file at that path — the same PUT-handles-both-create-and-update
// contract package caldav/coroutines exposes.
type CreateCalendarItem struct {
	config    *vdir.Config
	item      item.CalendarItem
	requested bool
}

// NewCreateCalendarItem builds a CreateCalendarItem ready to drive via
// Resume(nil).
func NewCreateCalendarItem(config *vdir.Config, it item.CalendarItem) *CreateCalendarItem {
	return &CreateCalendarItem{config: config, item: it}
}

// CreateCalendarItemResult is returned by CreateCalendarItem.Resume.
type CreateCalendarItemResult struct {
	Io  *ioeffect.FsIo
	Ok  bool
	Err error
}

// Resume advances the operation.
func (c *CreateCalendarItem) Resume(arg *ioeffect.FsIoResult) CreateCalendarItemResult {
	if !c.requested {
		c.requested = true
		return CreateCalendarItemResult{Io: &ioeffect.FsIo{
			Op:   ioeffect.FsWriteFile,
			Path: c.config.ItemPath(c.item.CalendarID, c.item.ID),
			Data: c.item.Bytes(),
		}}
	}
	if arg.Err != nil {
		return CreateCalendarItemResult{Err: arg.Err}
	}
	return CreateCalendarItemResult{Ok: true}
}

// UpdateCalendarItem is the same write-the-file operation as
// CreateCalendarItem; a vdir item file doesn't distinguish create from
// update.
type UpdateCalendarItem = CreateCalendarItem

// UpdateCalendarItemResult is the same shape as CreateCalendarItemResult.
type UpdateCalendarItemResult = CreateCalendarItemResult

// NewUpdateCalendarItem builds an UpdateCalendarItem ready to drive via
// Resume(nil).
func NewUpdateCalendarItem(config *vdir.Config, it item.CalendarItem) *UpdateCalendarItem {
	return NewCreateCalendarItem(config, it)
}
