// Package vdir implements the vdir filesystem backend: the same workflow
// surface as package caldav/coroutines, driven by ioeffect.FsIo effects
// instead of StreamIo. Collections are directories under Root; their
// metadata lives in sidecar files named "displayname", "description", and
// "color" inside the directory. Items are "<id>.ics" files.
package vdir

// Config is the vdir root a workflow state machine is built against.
type Config struct {
	Root string
}

// CalendarPath returns the directory a calendar's sidecar files and items
// live under.
func (c *Config) CalendarPath(id string) string {
	return c.Root + "/" + id
}

// MetaPath returns the path of a calendar's sidecar metadata file (one of
// "displayname", "description", "color").
func (c *Config) MetaPath(calendarID, name string) string {
	return c.CalendarPath(calendarID) + "/" + name
}

// ItemPath returns the path of an item's "<id>.ics" file within calendarID.
func (c *Config) ItemPath(calendarID, itemID string) string {
	return c.CalendarPath(calendarID) + "/" + itemID + ".ics"
}
