package timeparse

import (
	"strings"
	"time"
)

const (
	displayLayout = "Jan 02, 2006 at 15:04"
	clockLayout   = "15:04"
)

// LoadZone resolves an IANA zone name; empty or blank means UTC.
func LoadZone(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// FormatForDisplay renders a UTC instant in the viewer's zone, zone name
// appended. A zero time renders as "TBD".
func FormatForDisplay(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "TBD"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(displayLayout) + " " + loc.String()
}

// FormatRange renders a start/end pair in the viewer's zone. When both
// instants fall on the same local date only the end's clock time is shown.
func FormatRange(start, end time.Time, loc *time.Location) string {
	if start.IsZero() || end.IsZero() {
		return "TBD"
	}
	if loc == nil {
		loc = time.UTC
	}
	localStart := start.In(loc)
	localEnd := end.In(loc)
	sy, sm, sd := localStart.Date()
	ey, em, ed := localEnd.Date()
	if sy == ey && sm == em && sd == ed {
		return localStart.Format(displayLayout) + " - " + localEnd.Format(clockLayout) + " " + loc.String()
	}
	return localStart.Format(displayLayout) + " - " + localEnd.Format(displayLayout) + " " + loc.String()
}
