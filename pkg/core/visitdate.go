package core

import (
	"fmt"
	"strings"
	"time"
)

// visitDateLayouts are tried in order. They cover plain dates, the
// "YYYY-MM-DD HH:MM:SS[.ffffff]" text SQL drivers produce for timestamps,
// and RFC 3339.
var visitDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseVisitDate parses a stored visit date.
func ParseVisitDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range visitDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized visit date %q", s)
}
