package feed

import (
	"fmt"
	"time"
)

// timeLayouts covers the date formats seen across the feeds. Tried in
// order; layouts without a zone are interpreted in the supplied business
// timezone.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseTime parses a feed timestamp string into the business timezone.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}
