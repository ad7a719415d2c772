package item

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundTripICS = "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nDTSTART:19970714T170000Z\r\nSUMMARY:Test\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"

func TestParseRoundTrip(t *testing.T) {
	cal, err := Parse(roundTripICS)
	require.NoError(t, err)

	it := CalendarItem{ID: "x", CalendarID: "y", Ical: cal}
	assert.Equal(t, roundTripICS, it.String())
}

func TestParseUnexpectedEOF(t *testing.T) {
	_, err := Parse("BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\n")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindUnexpectedEOF, perr.Kind)
}

func TestParseInvalidFormat(t *testing.T) {
	_, err := Parse("BEGIN:VCARD\r\nEND:VCARD\r\n")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindInvalidFormat, perr.Kind)
}

func TestKeyAndEqual(t *testing.T) {
	cal, err := Parse(roundTripICS)
	require.NoError(t, err)

	a := CalendarItem{ID: "1", CalendarID: "cal", Ical: cal}
	b := CalendarItem{ID: "1", CalendarID: "cal", Ical: nil}
	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, a.Equal(b))
}

func TestOccurrencesSingleEvent(t *testing.T) {
	cal, err := Parse(roundTripICS)
	require.NoError(t, err)
	it := CalendarItem{ID: "1", CalendarID: "cal", Ical: cal}

	from := time.Date(1997, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(1997, 8, 1, 0, 0, 0, 0, time.UTC)
	occ, err := it.Occurrences(from, to)
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.True(t, occ[0].Equal(time.Date(1997, 7, 14, 17, 0, 0, 0, time.UTC)))

	outside, err := it.Occurrences(to, to.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, outside)
}

func TestOccurrencesRecurring(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nDTSTART:20240101T090000Z\r\nRRULE:FREQ=DAILY;COUNT=5\r\nEXDATE:20240103T090000Z\r\nSUMMARY:Daily\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	cal, err := Parse(ics)
	require.NoError(t, err)
	it := CalendarItem{ID: "1", CalendarID: "cal", Ical: cal}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	occ, err := it.Occurrences(from, to)
	require.NoError(t, err)
	// 5 occurrences minus the excluded Jan 3rd instance.
	assert.Len(t, occ, 4)
	for _, when := range occ {
		assert.NotEqual(t, 3, when.Day())
	}
}

func TestOccurrencesNoEvent(t *testing.T) {
	cal, err := Parse("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	require.NoError(t, err)
	it := CalendarItem{ID: "1", CalendarID: "cal", Ical: cal}

	occ, err := it.Occurrences(time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, occ)
}
