package hktime

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTimestamp indicates a timestamp string that does not match the
// shape the Apple Health export uses. It is fatal for the extraction run.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

const (
	// AbsoluteLayout matches the zoned timestamps on Record and Workout
	// attributes, e.g. "2017-11-15 00:13:33 -0400".
	AbsoluteLayout = "2006-01-02 15:04:05 -0700"

	// TimeOfDayLayout matches the date-less beat sample times, e.g.
	// "6:14:48.94 PM". No date, no zone.
	TimeOfDayLayout = "3:04:05.999999 PM"
)

// ParseAbsolute parses a zoned export timestamp.
func ParseAbsolute(s string) (time.Time, error) {
	t, err := time.Parse(AbsoluteLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// ParseTimeOfDay parses a 12-hour wall-clock time with fractional seconds.
// The result carries the zero date, so two parsed values are directly
// subtractable.
func ParseTimeOfDay(s string) (time.Time, error) {
	t, err := time.Parse(TimeOfDayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// Elapsed returns sample minus reference. Both values must come from
// ParseTimeOfDay so they share the same anchor date. A sample earlier than
// the reference yields a negative duration; a beat sequence crossing
// midnight therefore wraps, matching the export's date-less time field.
func Elapsed(reference, sample time.Time) time.Duration {
	return sample.Sub(reference)
}

// Reconstruct rebuilds the absolute instant of a beat sample by offsetting
// the sequence start with the sample's wall-clock distance from the
// reference sample.
func Reconstruct(sequenceStart time.Time, reference, sample time.Time) time.Time {
	return sequenceStart.Add(Elapsed(reference, sample))
}

// FormatInstant renders a reconstructed instant for output. Whole-second
// instants use the export's own layout; sub-second instants carry a fixed
// six-digit fraction.
func FormatInstant(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format(AbsoluteLayout)
	}
	return t.Format("2006-01-02 15:04:05.000000 -0700")
}
