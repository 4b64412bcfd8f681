package sales

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout used by the source datasets.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a source timestamp. Times without a zone are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
