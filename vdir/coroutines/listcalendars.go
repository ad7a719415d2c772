package coroutines

import (
	"github.com/iocoro/caldav/calendar"
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/vdir"
)

type listCalendarsPhase int

const (
	lcReadRoot listCalendarsPhase = iota
	lcReadName
	lcReadDesc
	lcReadColor
	lcNext
	lcDone
)

// ListCalendars enumerates the calendar directories under a vdir root,
// reading each one's present sidecar metadata files.
type ListCalendars struct {
	config   *vdir.Config
	phase    listCalendarsPhase
	awaiting bool

	dirs []ioeffect.DirEntry
	idx  int

	displayName, description, color string
	cur                              []calendar.Calendar
}

// NewListCalendars builds a ListCalendars ready to drive via Resume(nil).
func NewListCalendars(config *vdir.Config) *ListCalendars {
	return &ListCalendars{config: config}
}

// ListCalendarsResult is returned by ListCalendars.Resume.
type ListCalendarsResult struct {
	Io  *ioeffect.FsIo
	Ok  []calendar.Calendar
	Err error
}

func (l *ListCalendars) currentID() string {
	return l.dirs[l.idx].Name
}

// sidecarText returns a read sidecar file's text, treating "not found" (and
// any other read failure) the same way package caldav/coroutines's
// ListCalendars treats a blank or absent property: absent.
func sidecarText(arg *ioeffect.FsIoResult) string {
	if arg.Err != nil {
		return ""
	}
	return string(arg.Data)
}

// Resume advances the operation.
func (l *ListCalendars) Resume(arg *ioeffect.FsIoResult) ListCalendarsResult {
	if l.awaiting {
		l.awaiting = false
		switch l.phase {
		case lcReadRoot:
			if arg.Err != nil {
				return ListCalendarsResult{Err: arg.Err}
			}
			for _, entry := range arg.Entries {
				if entry.IsDir {
					l.dirs = append(l.dirs, entry)
				}
			}
			l.phase = lcReadName

		case lcReadName:
			l.displayName = sidecarText(arg)
			l.phase = lcReadDesc

		case lcReadDesc:
			l.description = sidecarText(arg)
			l.phase = lcReadColor

		case lcReadColor:
			l.color = sidecarText(arg)
			l.finishCurrent()
			l.phase = lcNext
		}
	}

	for {
		switch l.phase {
		case lcReadRoot:
			l.awaiting = true
			return ListCalendarsResult{Io: &ioeffect.FsIo{Op: ioeffect.FsReadDir, Path: l.config.Root}}

		case lcReadName:
			if l.idx >= len(l.dirs) {
				l.phase = lcDone
				continue
			}
			l.displayName, l.description, l.color = "", "", ""
			l.awaiting = true
			return ListCalendarsResult{Io: &ioeffect.FsIo{
				Op: ioeffect.FsReadFile, Path: l.config.MetaPath(l.currentID(), "displayname"),
			}}

		case lcReadDesc:
			l.awaiting = true
			return ListCalendarsResult{Io: &ioeffect.FsIo{
				Op: ioeffect.FsReadFile, Path: l.config.MetaPath(l.currentID(), "description"),
			}}

		case lcReadColor:
			l.awaiting = true
			return ListCalendarsResult{Io: &ioeffect.FsIo{
				Op: ioeffect.FsReadFile, Path: l.config.MetaPath(l.currentID(), "color"),
			}}

		case lcNext:
			l.idx++
			l.phase = lcReadName

		case lcDone:
			return ListCalendarsResult{Ok: l.cur}
		}
	}
}

func (l *ListCalendars) finishCurrent() {
	l.cur = append(l.cur, calendar.Calendar{
		ID:          l.currentID(),
		DisplayName: l.displayName,
		Description: l.description,
		Color:       l.color,
	})
}
