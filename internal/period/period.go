package period

import (
	"errors"
	"time"
)

var ErrUnknownKind = errors.New("unknown period kind")

const (
	Monthly = "monthly"
	Weekly  = "weekly"
	Yearly  = "yearly"
)

// Window is an inclusive date range. Start and End are calendar dates at
// midnight UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// Resolve maps a period kind and a reference date to the inclusive window
// containing that date. Weekly windows start on Monday. An unrecognized kind
// is a hard error, never a silent monthly fallback.
func Resolve(kind string, reference time.Time) (Window, error) {
	day := DateOf(reference)
	switch kind {
	case Weekly:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Window{Start: start, End: start.AddDate(0, 0, 6)}, nil
	case Monthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case Yearly:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: end}, nil
	default:
		return Window{}, ErrUnknownKind
	}
}

// IsValidKind reports whether kind is one of the supported period kinds.
func IsValidKind(kind string) bool {
	return kind == Monthly || kind == Weekly || kind == Yearly
}

// DateOf truncates a timestamp to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the date of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	day := DateOf(t)
	return !day.Before(w.Start) && !day.After(w.End)
}
