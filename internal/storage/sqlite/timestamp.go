package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailyhabits/internal/constants"
)

// timestampLayouts are tried in order when a TIMESTAMP column comes back as text.
// The driver may already have converted the value to time.Time.
var timestampLayouts = []string{
	constants.TimestampFormat,
	constants.SQLTimestampFormat,
	time.RFC3339Nano,
}

// formatTimestamp stores t as fixed-width UTC text so that text ordering matches time ordering.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// timestamp scans a TIMESTAMP column stored in UTC.
type timestamp struct {
	Time time.Time
}

func (ts *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		ts.Time = v
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		ts.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (ts *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("failed to parse timestamp %q", s)
}
