package coroutines

import (
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/vdir"
)

// DeleteCalendar recursively removes a calendar directory and everything
// under it.
type DeleteCalendar struct {
	config    *vdir.Config
	id        string
	requested bool
	done      bool
}

// NewDeleteCalendar builds a DeleteCalendar ready to drive via Resume(nil).
func NewDeleteCalendar(config *vdir.Config, id string) *DeleteCalendar {
	return &DeleteCalendar{config: config, id: id}
}

// DeleteCalendarResult is returned by DeleteCalendar.Resume.
type DeleteCalendarResult struct {
	Io  *ioeffect.FsIo
	Ok  bool
	Err error
}

// Resume advances the operation.
func (d *DeleteCalendar) Resume(arg *ioeffect.FsIoResult) DeleteCalendarResult {
	if !d.requested {
		d.requested = true
		return DeleteCalendarResult{Io: &ioeffect.FsIo{Op: ioeffect.FsRemoveAll, Path: d.config.CalendarPath(d.id)}}
	}
	if arg.Err != nil {
		return DeleteCalendarResult{Err: arg.Err}
	}
	return DeleteCalendarResult{Ok: true}
}
