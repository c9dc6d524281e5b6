// Package timer schedules rest periods between the sets of a progression.
package timer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/liftcalc/internal/errors"
	"github.com/myrjola/liftcalc/internal/weight"
)

var ErrZeroInterval = errors.NewSentinel("interval must be longer than zero")

// Interval is a rest period shown as minutes and seconds.
type Interval struct {
	Minutes int
	Seconds int
}

// Duration converts the interval.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.Minutes)*time.Minute + time.Duration(i.Seconds)*time.Second
}

// String formats the interval like 1:30.
func (i Interval) String() string {
	return FormatOffset(i.Duration())
}

//nolint:gochecknoglobals // read-only presets.
var PresetIntervals = []Interval{
	{Minutes: 0, Seconds: 30},
	{Minutes: 0, Seconds: 45},
	{Minutes: 1, Seconds: 0},
	{Minutes: 1, Seconds: 30},
	{Minutes: 2, Seconds: 0},
	{Minutes: 2, Seconds: 15},
	{Minutes: 3, Seconds: 0},
}

// DefaultInterval is the rest used for the 1RM work-up when nothing else is picked.
const DefaultInterval = 2 * time.Minute

// ParseInterval reads a custom interval from form fields. Unparseable parts count as zero and an interval of zero
// length is rejected.
func ParseInterval(minutes, seconds string) (Interval, error) {
	i := Interval{Minutes: weight.ParseCount(minutes, 0), Seconds: weight.ParseCount(seconds, 0)}
	if i.Duration() <= 0 {
		return Interval{}, errors.Wrap(ErrZeroInterval, "parse interval",
			slog.String("minutes", minutes), slog.String("seconds", seconds))
	}
	return i, nil
}

const (
	PatternOneRepMax = "1rm"
	PatternUniform   = "uniform"
	PatternCustom    = "custom"
)

// Pattern is a named way of spacing sets.
type Pattern struct {
	ID          string
	Name        string
	Description string
	// Custom patterns use an interval typed in by the lifter.
	Custom bool
	// offsets are fixed start times relative to the first set. Empty for patterns spaced by an interval.
	offsets []time.Duration
}

//nolint:gochecknoglobals // read-only patterns.
var Patterns = []Pattern{
	{
		ID:          PatternOneRepMax,
		Name:        "1RM Pattern",
		Description: "Standard timing for 1RM progression (0, 2, 4, 6, 9, 12, 15 min)",
		Custom:      false,
		offsets: []time.Duration{
			0, 2 * time.Minute, 4 * time.Minute, 6 * time.Minute, 9 * time.Minute, 12 * time.Minute, 15 * time.Minute,
		},
	},
	{
		ID:          PatternUniform,
		Name:        "Uniform Timing",
		Description: "Equal time between all sets",
		Custom:      false,
		offsets:     nil,
	},
	{
		ID:          PatternCustom,
		Name:        "Custom Pattern",
		Description: "Define your own timing between sets",
		Custom:      true,
		offsets:     nil,
	},
}

// LookupPattern finds a pattern by ID.
func LookupPattern(id string) (Pattern, bool) {
	for _, p := range Patterns {
		if p.ID == id {
			return p, true
		}
	}
	return Pattern{}, false
}

// Offsets returns when each of setCount sets starts relative to the first one.
//
// The 1RM pattern has fixed offsets. Sets beyond them follow the last one spaced by interval, or by
// [DefaultInterval] when interval is not positive. Other patterns space every set by interval. Unknown patterns
// are treated as uniform.
func Offsets(patternID string, interval time.Duration, setCount int) []time.Duration {
	if setCount <= 0 {
		return []time.Duration{}
	}
	offsets := make([]time.Duration, setCount)
	var fixed []time.Duration
	if p, ok := LookupPattern(patternID); ok {
		fixed = p.offsets
	}
	if len(fixed) > 0 && interval <= 0 {
		interval = DefaultInterval
	}
	for i := range offsets {
		switch {
		case i < len(fixed):
			offsets[i] = fixed[i]
		case len(fixed) > 0:
			offsets[i] = fixed[len(fixed)-1] + time.Duration(i-len(fixed)+1)*interval
		default:
			offsets[i] = time.Duration(i) * max(interval, 0)
		}
	}
	return offsets
}

// AlignStart returns the first instant after now that is a whole multiple of interval on the wall clock, so that a
// 2 minute interval started at 10:03:20 begins at 10:04:00.
func AlignStart(now time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		return now
	}
	return now.Truncate(interval).Add(interval)
}

// Schedule turns offsets into wall clock times starting at start.
func Schedule(start time.Time, offsets []time.Duration) []time.Time {
	times := make([]time.Time, len(offsets))
	for i, o := range offsets {
		times[i] = start.Add(o)
	}
	return times
}

// NextSet returns the index and time of the first set in schedule that has not started by now. It returns false
// when every set has started.
func NextSet(schedule []time.Time, now time.Time) (int, time.Time, bool) {
	for i, t := range schedule {
		if t.After(now) {
			return i, t, true
		}
	}
	return 0, time.Time{}, false
}

// FormatOffset formats d as minutes and zero-padded seconds, e.g. 12:00 or 0:45.
func FormatOffset(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60) //nolint:mnd // seconds per minute.
}
