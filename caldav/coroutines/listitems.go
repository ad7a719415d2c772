package coroutines

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/iocoro/caldav/caldav"
	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/item"
)

// ComponentFilter names a top-level iCalendar component type a
// calendar-query REPORT can filter on (RFC 4791 §9.7.1).
type ComponentFilter string

const (
	ComponentEvent   ComponentFilter = "VEVENT"
	ComponentTodo    ComponentFilter = "VTODO"
	ComponentJournal ComponentFilter = "VJOURNAL"
)

// TimeRange is a CalDAV time-range filter (RFC 4791 §9.9). Both bounds are
// optional; an open-ended range omits the missing bound. Values must be UTC
// timestamps in iCalendar form: YYYYMMDDTHHMMSSZ.
type TimeRange struct {
	start string
	end   string
}

// NewTimeRange validates start and end (either may be "" for an open bound)
// and returns a TimeRange, or false if both are "" or if either is non-empty
// and malformed.
func NewTimeRange(start, end string) (TimeRange, bool) {
	if start == "" && end == "" {
		return TimeRange{}, false
	}
	if start != "" && !isValidTimestamp(start) {
		return TimeRange{}, false
	}
	if end != "" && !isValidTimestamp(end) {
		return TimeRange{}, false
	}
	return TimeRange{start: start, end: end}, true
}

// isValidTimestamp checks the structural shape "YYYYMMDDTHHMMSSZ": 16 bytes,
// 'T' at index 8, 'Z' at index 15, digits everywhere else, month in 1..=12,
// day in 1..=31, hour <= 23, minute <= 59, second <= 59. It does not
// validate full calendar correctness (e.g. it accepts 20240230T000000Z,
// February having only 29 days); that check is left to the server.
func isValidTimestamp(s string) bool {
	if len(s) != 16 || s[8] != 'T' || s[15] != 'Z' {
		return false
	}
	for i := 0; i < 8; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	for i := 9; i < 15; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	month := digits2(s[4:6])
	day := digits2(s[6:8])
	hour := digits2(s[9:11])
	minute := digits2(s[11:13])
	second := digits2(s[13:15])

	return month >= 1 && month <= 12 &&
		day >= 1 && day <= 31 &&
		hour <= 23 && minute <= 59 && second <= 59
}

func digits2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

const listCalendarItemsBodyTemplate = `<?xml version="1.0" encoding="utf-8" ?>
<C:calendar-query xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav">
  <D:prop>
    <C:calendar-data />
  </D:prop>
  <C:filter>
    %s
  </C:filter>
</C:calendar-query>`

func buildCompFilter(filter ComponentFilter, timeRange *TimeRange) string {
	switch {
	case filter != "" && timeRange != nil:
		var attrs strings.Builder
		if timeRange.start != "" {
			fmt.Fprintf(&attrs, ` start="%s"`, timeRange.start)
		}
		if timeRange.end != "" {
			fmt.Fprintf(&attrs, ` end="%s"`, timeRange.end)
		}
		return fmt.Sprintf(`<C:comp-filter name="%s"><C:time-range%s /></C:comp-filter>`, filter, attrs.String())
	case filter != "":
		return fmt.Sprintf(`<C:comp-filter name="%s" />`, filter)
	default:
		// A time range with no comp-filter has no server-independent way to
		// be expressed (RFC 4791 requires time-range to nest inside a
		// comp-filter); it's dropped rather than sent malformed.
		return ""
	}
}

type listCalendarItemsProp struct {
	CalendarData string
	HasData      bool
}

func decodeListCalendarItemsProp(elem *etree.Element) (listCalendarItemsProp, error) {
	data, ok := caldav.TextProp(elem, "calendar-data").Get()
	return listCalendarItemsProp{CalendarData: data, HasData: ok}, nil
}

// ListCalendarItems lists the items in a calendar collection via a
// calendar-query REPORT (RFC 4791 §7.8), optionally filtered to one
// component type and time range.
type ListCalendarItems struct {
	calendarID string
	send       *Send[caldav.Multistatus[listCalendarItemsProp]]
}

// NewListCalendarItems builds a ListCalendarItems with no filter.
func NewListCalendarItems(config *caldav.Config, calendarID string) *ListCalendarItems {
	return NewListCalendarItemsWithTimeRange(config, calendarID, "", nil)
}

// NewListCalendarItemsWithTimeRange builds a ListCalendarItems filtered to
// filter (empty for no component filter) and, if non-nil, timeRange.
func NewListCalendarItemsWithTimeRange(config *caldav.Config, calendarID string, filter ComponentFilter, timeRange *TimeRange) *ListCalendarItems {
	req := caldav.Report(config, calendarID).ContentTypeXML().Depth(1)
	body := fmt.Sprintf(listCalendarItemsBodyTemplate, buildCompFilter(filter, timeRange))

	wireReq := httpwire.Request{
		Method:  req.Method,
		URI:     req.URI,
		Headers: req.Headers,
		Body:    []byte(body),
	}
	decode := func(body []byte) (caldav.Multistatus[listCalendarItemsProp], error) {
		return caldav.DecodeMultistatus(body, decodeListCalendarItemsProp)
	}
	return &ListCalendarItems{calendarID: calendarID, send: NewSend(wireReq, decode)}
}

// ListCalendarItemsResult is returned by ListCalendarItems.Resume.
type ListCalendarItemsResult struct {
	Io  *ioeffect.StreamIo
	Ok  []item.CalendarItem
	Err error
}

// Resume advances the exchange.
func (l *ListCalendarItems) Resume(arg *ioeffect.StreamIoResult) ListCalendarItemsResult {
	result := l.send.Resume(arg)
	if result.Err != nil {
		return ListCalendarItemsResult{Err: result.Err}
	}
	if result.Io != nil {
		return ListCalendarItemsResult{Io: result.Io}
	}

	var items []item.CalendarItem

	for _, resp := range result.Ok.Body.Responses {
		if status, ok := resp.Status.Get(); ok && !status.IsSuccess() {
			continue
		}

		id := strings.TrimSuffix(lastPathSegment(resp.Href), ".ics")

		for _, ps := range resp.Propstats {
			if !ps.Status.IsSuccess() || !ps.Prop.HasData {
				continue
			}
			ical, err := item.Parse(ps.Prop.CalendarData)
			if err != nil {
				continue
			}
			items = append(items, item.CalendarItem{ID: id, CalendarID: l.calendarID, Ical: ical})
			break
		}
	}

	return ListCalendarItemsResult{Ok: items}
}
