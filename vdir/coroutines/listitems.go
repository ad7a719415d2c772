package coroutines

import (
	"strings"

	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/item"
	"github.com/iocoro/caldav/vdir"
)

type listCalendarItemsPhase int

const (
	liReadDir listCalendarItemsPhase = iota
	liReadItem
	liNext
	liDone
)

// ListCalendarItems enumerates a calendar directory's ".ics" files and
// parses each one.
type ListCalendarItems struct {
	config     *vdir.Config
	calendarID string
	phase      listCalendarItemsPhase
	awaiting   bool

	names []string
	idx   int
	items []item.CalendarItem
}

// NewListCalendarItems builds a ListCalendarItems ready to drive via
// Resume(nil).
func NewListCalendarItems(config *vdir.Config, calendarID string) *ListCalendarItems {
	return &ListCalendarItems{config: config, calendarID: calendarID}
}

// ListCalendarItemsResult is returned by ListCalendarItems.Resume.
type ListCalendarItemsResult struct {
	Io  *ioeffect.FsIo
	Ok  []item.CalendarItem
	Err error
}

// Resume advances the operation.
func (l *ListCalendarItems) Resume(arg *ioeffect.FsIoResult) ListCalendarItemsResult {
	if l.awaiting {
		l.awaiting = false
		switch l.phase {
		case liReadDir:
			if arg.Err != nil {
				return ListCalendarItemsResult{Err: arg.Err}
			}
			for _, entry := range arg.Entries {
				if !entry.IsDir && strings.HasSuffix(entry.Name, ".ics") {
					l.names = append(l.names, strings.TrimSuffix(entry.Name, ".ics"))
				}
			}
			l.phase = liReadItem

		case liReadItem:
			if arg.Err != nil {
				return ListCalendarItemsResult{Err: arg.Err}
			}
			cal, err := item.Parse(string(arg.Data))
			if err != nil {
				return ListCalendarItemsResult{Err: err}
			}
			l.items = append(l.items, item.CalendarItem{ID: l.names[l.idx], CalendarID: l.calendarID, Ical: cal})
			l.phase = liNext
		}
	}

	for {
		switch l.phase {
		case liReadDir:
			l.awaiting = true
			return ListCalendarItemsResult{Io: &ioeffect.FsIo{Op: ioeffect.FsReadDir, Path: l.config.CalendarPath(l.calendarID)}}

		case liReadItem:
			if l.idx >= len(l.names) {
				l.phase = liDone
				continue
			}
			l.awaiting = true
			return ListCalendarItemsResult{Io: &ioeffect.FsIo{
				Op: ioeffect.FsReadFile, Path: l.config.ItemPath(l.calendarID, l.names[l.idx]),
			}}

		case liNext:
			l.idx++
			l.phase = liReadItem

		case liDone:
			return ListCalendarItemsResult{Ok: l.items}
		}
	}
}
