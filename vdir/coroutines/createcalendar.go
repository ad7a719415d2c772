// Package coroutines holds the vdir backend's pausable workflow state
// machines, mirroring package caldav/coroutines one for one but driven by
// ioeffect.FsIo instead of StreamIo.
package coroutines

import (
	"github.com/iocoro/caldav/calendar"
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/vdir"
)

type createCalendarPhase int

const (
	ccMkdir createCalendarPhase = iota
	ccWriteName
	ccWriteDesc
	ccWriteColor
	ccDone
)

// CreateCalendar creates a calendar directory and its present metadata
// sidecar files.
type CreateCalendar struct {
	config   *vdir.Config
	cal      calendar.Calendar
	phase    createCalendarPhase
	awaiting bool
}

// NewCreateCalendar builds a CreateCalendar ready to drive via Resume(nil).
func NewCreateCalendar(config *vdir.Config, cal calendar.Calendar) *CreateCalendar {
	return &CreateCalendar{config: config, cal: cal}
}

// CreateCalendarResult is returned by CreateCalendar.Resume.
type CreateCalendarResult struct {
	Io  *ioeffect.FsIo
	Ok  bool
	Err error
}

// Resume advances the operation. arg is nil on the first call and on every
// later call carries the fulfillment of the effect the previous call
// returned.
func (c *CreateCalendar) Resume(arg *ioeffect.FsIoResult) CreateCalendarResult {
	if c.awaiting {
		// A duplicate id surfaces here as vdir.ErrAlreadyExists from the
		// mkdir effect (spec.md §8 property 3): it propagates as a failure,
		// it is not tolerated as an idempotent no-op.
		if arg.Err != nil {
			return CreateCalendarResult{Err: arg.Err}
		}
		c.awaiting = false
		c.phase++
	}

	for {
		switch c.phase {
		case ccMkdir:
			c.awaiting = true
			return CreateCalendarResult{Io: &ioeffect.FsIo{
				Op: ioeffect.FsMkdirAll, Path: c.config.CalendarPath(c.cal.ID), CreateExclusive: true,
			}}

		case ccWriteName:
			if c.cal.DisplayName == "" {
				c.phase++
				continue
			}
			c.awaiting = true
			return CreateCalendarResult{Io: &ioeffect.FsIo{
				Op: ioeffect.FsWriteFile, Path: c.config.MetaPath(c.cal.ID, "displayname"), Data: []byte(c.cal.DisplayName),
			}}

		case ccWriteDesc:
			if c.cal.Description == "" {
				c.phase++
				continue
			}
			c.awaiting = true
			return CreateCalendarResult{Io: &ioeffect.FsIo{
				Op: ioeffect.FsWriteFile, Path: c.config.MetaPath(c.cal.ID, "description"), Data: []byte(c.cal.Description),
			}}

		case ccWriteColor:
			if c.cal.Color == "" {
				c.phase++
				continue
			}
			c.awaiting = true
			return CreateCalendarResult{Io: &ioeffect.FsIo{
				Op: ioeffect.FsWriteFile, Path: c.config.MetaPath(c.cal.ID, "color"), Data: []byte(c.cal.Color),
			}}

		case ccDone:
			return CreateCalendarResult{Ok: true}
		}
	}
}
