package processor

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return date, nil
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// AddDays adds whole calendar days. No business-day or holiday handling.
func AddDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// Window is a start/due pair computed from day offsets.
type Window struct {
	Start time.Time
	Due   time.Time
}

// OffsetWindow returns the window starting startDay days after anchor and
// lasting durationDays days.
func OffsetWindow(anchor time.Time, startDay, durationDays int) Window {
	start := AddDays(anchor, startDay)
	return Window{Start: start, Due: AddDays(start, durationDays)}
}
