package coroutines

import (
	"errors"

	"github.com/iocoro/caldav/calendar"
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/vdir"
)

type updateCalendarPhase int

const (
	ucName updateCalendarPhase = iota
	ucDesc
	ucColor
	ucDone
)

// UpdateCalendar rewrites a calendar's metadata sidecar files, removing a
// sidecar file whose field is now blank rather than leaving a stale value
// behind.
type UpdateCalendar struct {
	config   *vdir.Config
	cal      calendar.Calendar
	phase    updateCalendarPhase
	awaiting bool
}

// NewUpdateCalendar builds an UpdateCalendar ready to drive via Resume(nil).
func NewUpdateCalendar(config *vdir.Config, cal calendar.Calendar) *UpdateCalendar {
	return &UpdateCalendar{config: config, cal: cal}
}

// UpdateCalendarResult is returned by UpdateCalendar.Resume.
type UpdateCalendarResult struct {
	Io  *ioeffect.FsIo
	Ok  bool
	Err error
}

func (u *UpdateCalendar) sidecarIo(name, value string) *ioeffect.FsIo {
	if value == "" {
		return &ioeffect.FsIo{Op: ioeffect.FsRemoveFile, Path: u.config.MetaPath(u.cal.ID, name)}
	}
	return &ioeffect.FsIo{Op: ioeffect.FsWriteFile, Path: u.config.MetaPath(u.cal.ID, name), Data: []byte(value)}
}

// Resume advances the operation.
func (u *UpdateCalendar) Resume(arg *ioeffect.FsIoResult) UpdateCalendarResult {
	if u.awaiting {
		if arg.Err != nil && !errors.Is(arg.Err, vdir.ErrNotFound) {
			return UpdateCalendarResult{Err: arg.Err}
		}
		u.awaiting = false
		u.phase++
	}

	for {
		switch u.phase {
		case ucName:
			u.awaiting = true
			return UpdateCalendarResult{Io: u.sidecarIo("displayname", u.cal.DisplayName)}

		case ucDesc:
			u.awaiting = true
			return UpdateCalendarResult{Io: u.sidecarIo("description", u.cal.Description)}

		case ucColor:
			u.awaiting = true
			return UpdateCalendarResult{Io: u.sidecarIo("color", u.cal.Color)}

		case ucDone:
			return UpdateCalendarResult{Ok: true}
		}
	}
}
