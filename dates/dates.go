// Package dates formats content store timestamps for display.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Invalid is shown in place of a date that could not be parsed.
const Invalid = "Invalid Date"

// DisplayLayout renders as "Friday, December 25, 2020".
const DisplayLayout = "Monday, January 2, 2006"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse reads s in any of the accepted layouts. Times are converted to UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("dates: cannot parse %q", s)
}

// Format returns s in the fixed en-US long form, or Invalid.
func Format(s string) string {
	t, err := Parse(s)
	if err != nil {
		return Invalid
	}
	return t.Format(DisplayLayout)
}
