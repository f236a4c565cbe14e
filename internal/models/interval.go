package models

import (
	"fmt"
	"time"

	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
)

// TimestampLayout is the wire format for appointment boundaries: naive local time, no zone suffix.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseTimestamp parses raw in TimestampLayout, interpreting it in loc (time.Local when nil).
// Fractional seconds are rejected even though time.Parse would accept them.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	ts, err := time.ParseInLocation(TimestampLayout, raw, loc)
	if err == nil && len(raw) != len(TimestampLayout) {
		err = fmt.Errorf("unexpected trailing text in %q", raw)
	}
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"malformed timestamp, expected YYYY-MM-DD HH:MM:SS")
	}
	return ts, nil
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// ParseInterval parses both bounds and requires start < end.
func ParseInterval(start, end string, loc *time.Location) (Interval, error) {
	s, err := ParseTimestamp(start, loc)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTimestamp(end, loc)
	if err != nil {
		return Interval{}, err
	}
	if !s.Before(e) {
		return Interval{}, appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps reports whether the two intervals share an instant. Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}
