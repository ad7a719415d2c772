package coroutines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iocoro/caldav/calendar"
	"github.com/iocoro/caldav/internal/iotest"
	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/item"
	"github.com/iocoro/caldav/vdir"
)

// driveFs pumps resume against fs until it reports done; callers capture the
// final result inside resume.
func driveFs(fs *iotest.MemFS, resume func(*ioeffect.FsIoResult) (*ioeffect.FsIo, bool)) {
	var arg *ioeffect.FsIoResult
	for {
		io, done := resume(arg)
		if done {
			return
		}
		result := fs.Fulfill(*io)
		arg = &result
	}
}

func runCreateCalendar(t *testing.T, fs *iotest.MemFS, config *vdir.Config, cal calendar.Calendar) CreateCalendarResult {
	t.Helper()
	sm := NewCreateCalendar(config, cal)
	var final CreateCalendarResult
	driveFs(fs, func(arg *ioeffect.FsIoResult) (*ioeffect.FsIo, bool) {
		final = sm.Resume(arg)
		return final.Io, final.Io == nil
	})
	return final
}

func runListCalendars(t *testing.T, fs *iotest.MemFS, config *vdir.Config) ListCalendarsResult {
	t.Helper()
	sm := NewListCalendars(config)
	var final ListCalendarsResult
	driveFs(fs, func(arg *ioeffect.FsIoResult) (*ioeffect.FsIo, bool) {
		final = sm.Resume(arg)
		return final.Io, final.Io == nil
	})
	return final
}

func runUpdateCalendar(t *testing.T, fs *iotest.MemFS, config *vdir.Config, cal calendar.Calendar) UpdateCalendarResult {
	t.Helper()
	sm := NewUpdateCalendar(config, cal)
	var final UpdateCalendarResult
	driveFs(fs, func(arg *ioeffect.FsIoResult) (*ioeffect.FsIo, bool) {
		final = sm.Resume(arg)
		return final.Io, final.Io == nil
	})
	return final
}

func runDeleteCalendar(t *testing.T, fs *iotest.MemFS, config *vdir.Config, id string) DeleteCalendarResult {
	t.Helper()
	sm := NewDeleteCalendar(config, id)
	var final DeleteCalendarResult
	driveFs(fs, func(arg *ioeffect.FsIoResult) (*ioeffect.FsIo, bool) {
		final = sm.Resume(arg)
		return final.Io, final.Io == nil
	})
	return final
}

func runCreateItem(t *testing.T, fs *iotest.MemFS, config *vdir.Config, it item.CalendarItem) CreateCalendarItemResult {
	t.Helper()
	sm := NewCreateCalendarItem(config, it)
	var final CreateCalendarItemResult
	driveFs(fs, func(arg *ioeffect.FsIoResult) (*ioeffect.FsIo, bool) {
		final = sm.Resume(arg)
		return final.Io, final.Io == nil
	})
	return final
}

func runListItems(t *testing.T, fs *iotest.MemFS, config *vdir.Config, calendarID string) ListCalendarItemsResult {
	t.Helper()
	sm := NewListCalendarItems(config, calendarID)
	var final ListCalendarItemsResult
	driveFs(fs, func(arg *ioeffect.FsIoResult) (*ioeffect.FsIo, bool) {
		final = sm.Resume(arg)
		return final.Io, final.Io == nil
	})
	return final
}

func runReadItem(t *testing.T, fs *iotest.MemFS, config *vdir.Config, calendarID, itemID string) ReadCalendarItemResult {
	t.Helper()
	sm := NewReadCalendarItem(config, calendarID, itemID)
	var final ReadCalendarItemResult
	driveFs(fs, func(arg *ioeffect.FsIoResult) (*ioeffect.FsIo, bool) {
		final = sm.Resume(arg)
		return final.Io, final.Io == nil
	})
	return final
}

func runDeleteItem(t *testing.T, fs *iotest.MemFS, config *vdir.Config, calendarID, itemID string) DeleteCalendarItemResult {
	t.Helper()
	sm := NewDeleteCalendarItem(config, calendarID, itemID)
	var final DeleteCalendarItemResult
	driveFs(fs, func(arg *ioeffect.FsIoResult) (*ioeffect.FsIo, bool) {
		final = sm.Resume(arg)
		return final.Io, final.Io == nil
	})
	return final
}

func TestCreateCalendarRoundTrip(t *testing.T) {
	fs := iotest.NewMemFS()
	config := &vdir.Config{Root: "/cal"}
	cal := calendar.Calendar{ID: "work", DisplayName: "Work", Description: "desc", Color: "#AABBCC"}

	res := runCreateCalendar(t, fs, config, cal)
	require.NoError(t, res.Err)
	assert.True(t, res.Ok)

	listed := runListCalendars(t, fs, config)
	require.NoError(t, listed.Err)
	require.Len(t, listed.Ok, 1)
	assert.True(t, cal.Equal(listed.Ok[0]))
}

func TestCreateCalendarNoMetadata(t *testing.T) {
	fs := iotest.NewMemFS()
	config := &vdir.Config{Root: "/cal"}
	cal := calendar.New()

	res := runCreateCalendar(t, fs, config, cal)
	require.NoError(t, res.Err)

	listed := runListCalendars(t, fs, config)
	require.NoError(t, listed.Err)
	require.Len(t, listed.Ok, 1)
	assert.True(t, cal.Equal(listed.Ok[0]))
}

func TestDuplicateCreateCalendarFails(t *testing.T) {
	fs := iotest.NewMemFS()
	config := &vdir.Config{Root: "/cal"}
	cal := calendar.Calendar{ID: "work"}

	require.True(t, runCreateCalendar(t, fs, config, cal).Ok)

	res := runCreateCalendar(t, fs, config, cal)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, vdir.ErrAlreadyExists)
}

func TestUpdateCalendarThenList(t *testing.T) {
	fs := iotest.NewMemFS()
	config := &vdir.Config{Root: "/cal"}
	cal := calendar.Calendar{ID: "work"}
	require.True(t, runCreateCalendar(t, fs, config, cal).Ok)

	updated := calendar.Calendar{ID: "work", DisplayName: "Work", Color: "#112233"}
	ures := runUpdateCalendar(t, fs, config, updated)
	require.NoError(t, ures.Err)
	assert.True(t, ures.Ok)

	listed := runListCalendars(t, fs, config)
	require.NoError(t, listed.Err)
	require.Len(t, listed.Ok, 1)
	assert.True(t, updated.Equal(listed.Ok[0]))
}

func TestUpdateCalendarClearsBlankField(t *testing.T) {
	fs := iotest.NewMemFS()
	config := &vdir.Config{Root: "/cal"}
	cal := calendar.Calendar{ID: "work", DisplayName: "Work"}
	require.True(t, runCreateCalendar(t, fs, config, cal).Ok)

	blanked := calendar.Calendar{ID: "work"}
	require.True(t, runUpdateCalendar(t, fs, config, blanked).Ok)

	listed := runListCalendars(t, fs, config)
	require.NoError(t, listed.Err)
	require.Len(t, listed.Ok, 1)
	assert.Empty(t, listed.Ok[0].DisplayName)
}

func TestDeleteCalendarThenListEmpty(t *testing.T) {
	fs := iotest.NewMemFS()
	config := &vdir.Config{Root: "/cal"}
	cal := calendar.Calendar{ID: "work"}
	require.True(t, runCreateCalendar(t, fs, config, cal).Ok)

	dres := runDeleteCalendar(t, fs, config, "work")
	require.NoError(t, dres.Err)
	assert.True(t, dres.Ok)

	listed := runListCalendars(t, fs, config)
	require.NoError(t, listed.Err)
	assert.Empty(t, listed.Ok)
}

func TestItemRoundTrip(t *testing.T) {
	fs := iotest.NewMemFS()
	config := &vdir.Config{Root: "/cal"}
	require.True(t, runCreateCalendar(t, fs, config, calendar.Calendar{ID: "work"}).Ok)

	const ics = "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nDTSTART:19970714T170000Z\r\nSUMMARY:Test\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	cal, err := item.Parse(ics)
	require.NoError(t, err)
	it := item.CalendarItem{ID: "ev1", CalendarID: "work", Ical: cal}

	cres := runCreateItem(t, fs, config, it)
	require.NoError(t, cres.Err)
	assert.True(t, cres.Ok)

	listed := runListItems(t, fs, config, "work")
	require.NoError(t, listed.Err)
	require.Len(t, listed.Ok, 1)
	assert.Equal(t, ics, listed.Ok[0].String())

	readRes := runReadItem(t, fs, config, "work", "ev1")
	require.NoError(t, readRes.Err)
	require.NotNil(t, readRes.Ok)
	assert.Equal(t, ics, readRes.Ok.String())

	dres := runDeleteItem(t, fs, config, "work", "ev1")
	require.NoError(t, dres.Err)
	assert.True(t, dres.Ok)

	afterDelete := runListItems(t, fs, config, "work")
	require.NoError(t, afterDelete.Err)
	assert.Empty(t, afterDelete.Ok)
}

func TestReadMissingItem(t *testing.T) {
	fs := iotest.NewMemFS()
	config := &vdir.Config{Root: "/cal"}
	require.True(t, runCreateCalendar(t, fs, config, calendar.Calendar{ID: "work"}).Ok)

	res := runReadItem(t, fs, config, "work", "missing")
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, vdir.ErrNotFound)
}
