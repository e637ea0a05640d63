// Package stamp provides the wall-clock point-in-time type used for
// session staleness checks. TimeStamps are never used for duration
// arithmetic, only for comparison and display.
package stamp

import (
	"os"
	"time"
)

// displayFormat is locale independent and performs no timezone
// conversion beyond the underlying time value's own zone.
const displayFormat = "2006-01-02-15:04:05"

// TimeStamp wraps a single point in civil time. Compare with Before,
// After and Equal; the zero value reports IsZero.
type TimeStamp struct {
	t time.Time
}

// Now returns the current point in time.
func Now() TimeStamp {
	return TimeStamp{t: time.Now()}
}

// FromTime converts a native time value.
func FromTime(t time.Time) TimeStamp {
	return TimeStamp{t: t}
}

// FromEpochSeconds converts a Unix epoch second count.
func FromEpochSeconds(sec int64) TimeStamp {
	return TimeStamp{t: time.Unix(sec, 0)}
}

// FromEpochNano converts a Unix epoch nanosecond count.
func FromEpochNano(ns int64) TimeStamp {
	return TimeStamp{t: time.Unix(0, ns)}
}

// ForFile returns the modification time of the file at path.
func ForFile(path string) (TimeStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return TimeStamp{}, err
	}

	return TimeStamp{t: info.ModTime()}, nil
}

// Time returns the underlying time value.
func (s TimeStamp) Time() time.Time {
	return s.t
}

// UnixNano returns the timestamp as Unix epoch nanoseconds.
func (s TimeStamp) UnixNano() int64 {
	return s.t.UnixNano()
}

func (s TimeStamp) Before(other TimeStamp) bool {
	return s.t.Before(other.t)
}

func (s TimeStamp) After(other TimeStamp) bool {
	return s.t.After(other.t)
}

func (s TimeStamp) Equal(other TimeStamp) bool {
	return s.t.Equal(other.t)
}

func (s TimeStamp) IsZero() bool {
	return s.t.IsZero()
}

// String renders the timestamp as YYYY-MM-DD-HH:MM:SS.
func (s TimeStamp) String() string {
	return s.t.Format(displayFormat)
}
