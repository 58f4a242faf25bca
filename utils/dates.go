package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for reservation dates.
const DateLayout = "2006-01-02"

// ParseDate parses a wire-format date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Today returns the current date in wire format.
func Today() string {
	return time.Now().Format(DateLayout)
}

// FormatDate renders a wire-format date for display (dd/mm/yyyy).
// Invalid input is returned unchanged.
func FormatDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

// FormatTime trims a time string to hours and minutes.
func FormatTime(s string) string {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return s
	}
	return parts[0] + ":" + parts[1]
}

// FormatDateTime renders a date and time pair for display.
func FormatDateTime(date, t string) string {
	return fmt.Sprintf("%s a las %s", FormatDate(date), FormatTime(t))
}
