// Package item holds the CalendarItem domain type: one iCalendar resource
// (an event, a to-do, ...) identified by its id within a calendar.
package item

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

// CalendarItem is one iCalendar resource inside a calendar.
type CalendarItem struct {
	ID         string
	CalendarID string
	Ical       *ical.Calendar
}

// NewID returns a fresh random item id.
func NewID() string {
	return uuid.NewString()
}

// Key returns the identity used by HashSet-style containers: (id,
// calendar_id). Two items with the same pair are the same entity regardless
// of body (spec.md §3).
func (it CalendarItem) Key() [2]string {
	return [2]string{it.ID, it.CalendarID}
}

// Equal compares items by Key only, not by body.
func (it CalendarItem) Equal(other CalendarItem) bool {
	return it.Key() == other.Key()
}

// String renders the item's iCalendar text form.
func (it CalendarItem) String() string {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(it.Ical); err != nil {
		return ""
	}
	return buf.String()
}

// Bytes renders the item's iCalendar text form as bytes, ready for a PUT
// body or a vdir item file.
func (it CalendarItem) Bytes() []byte {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(it.Ical); err != nil {
		return nil
	}
	return buf.Bytes()
}

// ParseErrorKind categorizes why iCalendar text failed to parse, mirroring
// the original implementation's finer-grained diagnostic (spec.md §7) as
// closely as go-ical's error reporting allows.
type ParseErrorKind int

const (
	// KindMalformed covers any structural decode failure (bad line, missing
	// BEGIN/END, unterminated component, ...).
	KindMalformed ParseErrorKind = iota
	// KindUnexpectedEOF means the input ended mid-component.
	KindUnexpectedEOF
	// KindInvalidFormat means the input parsed, but its root component is
	// not VCALENDAR (e.g. a vCard was handed to the calendar decoder).
	KindInvalidFormat
)

// ParseError is returned by Parse when iCalendar text fails to decode.
type ParseError struct {
	Kind ParseErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindUnexpectedEOF:
		return "ical: unexpected end of input"
	case KindInvalidFormat:
		return "ical: parsed a non-calendar document"
	default:
		return "ical: invalid line: " + e.Err.Error()
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes iCalendar text into a *ical.Calendar, the external decoder
// contract spec.md §1 calls for: parse(text) → Ical | ParseError.
func Parse(text string) (*ical.Calendar, error) {
	cal, err := ical.NewDecoder(strings.NewReader(text)).Decode()
	if err != nil {
		if err == io.EOF {
			return nil, &ParseError{Kind: KindUnexpectedEOF, Err: err}
		}
		return nil, &ParseError{Kind: KindMalformed, Err: err}
	}
	if cal.Name != ical.CompCalendar {
		return nil, &ParseError{Kind: KindInvalidFormat, Err: err}
	}
	return cal, nil
}

// firstEvent returns the item's first VEVENT subcomponent, or nil.
func (it CalendarItem) firstEvent() *ical.Component {
	if it.Ical == nil {
		return nil
	}
	for _, child := range it.Ical.Children {
		if child.Name == ical.CompEvent {
			return child
		}
	}
	return nil
}

// dateListValues splits a RDATE/EXDATE prop's comma-separated value list and
// parses each entry as a UTC iCalendar timestamp, ignoring entries this
// prop's VALUE=DATE form can't express as a single instant.
func dateListValues(prop *ical.Prop) []time.Time {
	if prop == nil {
		return nil
	}
	var out []time.Time
	for _, raw := range strings.Split(prop.Value, ",") {
		raw = strings.TrimSpace(raw)
		if t, err := time.Parse("20060102T150405Z", raw); err == nil {
			out = append(out, t)
			continue
		}
		if t, err := time.Parse("20060102", raw); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// Occurrences expands the item's first VEVENT's RRULE/RDATE, minus its
// EXDATE, into start times in [from, to). An item with no RRULE/RDATE and a
// DTSTART inside the window yields that single instant; an item with no
// VEVENT or no DTSTART yields no occurrences.
func (it CalendarItem) Occurrences(from, to time.Time) ([]time.Time, error) {
	event := it.firstEvent()
	if event == nil {
		return nil, nil
	}

	dtstartProp := event.Props.Get("DTSTART")
	if dtstartProp == nil {
		return nil, nil
	}
	dtstart, err := dtstartProp.DateTime(time.UTC)
	if err != nil {
		return nil, fmt.Errorf("item: invalid DTSTART: %w", err)
	}

	exdates := dateListValues(event.Props.Get("EXDATE"))
	excluded := func(t time.Time) bool {
		for _, ex := range exdates {
			if t.Equal(ex) {
				return true
			}
		}
		return false
	}

	var occurrences []time.Time

	if rruleProp := event.Props.Get("RRULE"); rruleProp != nil {
		full := fmt.Sprintf("DTSTART:%s\nRRULE:%s", dtstart.UTC().Format("20060102T150405Z"), rruleProp.Value)
		ruleSet, err := rrule.StrToRRuleSet(full)
		if err != nil {
			return nil, fmt.Errorf("item: invalid RRULE %q: %w", rruleProp.Value, err)
		}
		for _, t := range ruleSet.Between(from, to, true) {
			if t.Before(to) && !excluded(t) {
				occurrences = append(occurrences, t)
			}
		}
	} else if !dtstart.Before(from) && dtstart.Before(to) && !excluded(dtstart) {
		occurrences = append(occurrences, dtstart)
	}

	for _, rdate := range dateListValues(event.Props.Get("RDATE")) {
		if !rdate.Before(from) && rdate.Before(to) && !excluded(rdate) {
			occurrences = append(occurrences, rdate)
		}
	}

	return occurrences, nil
}
