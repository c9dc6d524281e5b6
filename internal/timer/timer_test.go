package timer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/liftcalc/internal/timer"
)

func minutes(ms ...float64) []time.Duration {
	ds := make([]time.Duration, len(ms))
	for i, m := range ms {
		ds[i] = time.Duration(m * float64(time.Minute))
	}
	return ds
}

func TestOffsets(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		interval time.Duration
		setCount int
		want     []time.Duration
	}{
		{
			name:     "1rm pattern",
			pattern:  timer.PatternOneRepMax,
			interval: 0,
			setCount: 7,
			want:     minutes(0, 2, 4, 6, 9, 12, 15),
		},
		{
			name:     "1rm pattern with fewer sets",
			pattern:  timer.PatternOneRepMax,
			interval: time.Minute,
			setCount: 3,
			want:     minutes(0, 2, 4),
		},
		{
			name:     "1rm pattern with extra sets",
			pattern:  timer.PatternOneRepMax,
			interval: 3 * time.Minute,
			setCount: 9,
			want:     minutes(0, 2, 4, 6, 9, 12, 15, 18, 21),
		},
		{
			name:     "1rm pattern with extra sets and no interval",
			pattern:  timer.PatternOneRepMax,
			interval: 0,
			setCount: 8,
			want:     minutes(0, 2, 4, 6, 9, 12, 15, 17),
		},
		{
			name:     "uniform",
			pattern:  timer.PatternUniform,
			interval: 90 * time.Second,
			setCount: 4,
			want:     minutes(0, 1.5, 3, 4.5),
		},
		{
			name:     "custom",
			pattern:  timer.PatternCustom,
			interval: 45 * time.Second,
			setCount: 3,
			want:     minutes(0, 0.75, 1.5),
		},
		{
			name:     "unknown pattern is uniform",
			pattern:  "tabata",
			interval: time.Minute,
			setCount: 2,
			want:     minutes(0, 1),
		},
		{
			name:     "no sets",
			pattern:  timer.PatternUniform,
			interval: time.Minute,
			setCount: 0,
			want:     []time.Duration{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timer.Offsets(tt.pattern, tt.interval, tt.setCount)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Offsets() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAlignStart(t *testing.T) {
	now := time.Date(2026, 10, 16, 10, 3, 20, 0, time.UTC)
	tests := []struct {
		interval time.Duration
		want     time.Time
	}{
		{2 * time.Minute, time.Date(2026, 10, 16, 10, 4, 0, 0, time.UTC)},
		{30 * time.Second, time.Date(2026, 10, 16, 10, 3, 30, 0, time.UTC)},
		{20 * time.Second, time.Date(2026, 10, 16, 10, 3, 40, 0, time.UTC)},
		{0, now},
	}
	for _, tt := range tests {
		if got := timer.AlignStart(now, tt.interval); !got.Equal(tt.want) {
			t.Errorf("AlignStart(%v) = %v, want %v", tt.interval, got, tt.want)
		}
	}
}

func TestScheduleAndNextSet(t *testing.T) {
	start := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	schedule := timer.Schedule(start, timer.Offsets(timer.PatternOneRepMax, 0, 7))
	if got, want := schedule[4], start.Add(9*time.Minute); !got.Equal(want) {
		t.Errorf("schedule[4] = %v, want %v", got, want)
	}

	i, at, ok := timer.NextSet(schedule, start.Add(5*time.Minute))
	if !ok || i != 3 || !at.Equal(start.Add(6*time.Minute)) {
		t.Errorf("NextSet() = %d, %v, %v", i, at, ok)
	}
	i, _, ok = timer.NextSet(schedule, start.Add(-time.Second))
	if !ok || i != 0 {
		t.Errorf("NextSet() before start = %d, %v", i, ok)
	}
	if _, _, ok = timer.NextSet(schedule, start.Add(15*time.Minute)); ok {
		t.Error("NextSet() after the last set reported a set")
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		minutes, seconds string
		want             timer.Interval
		wantErr          error
	}{
		{"1", "30", timer.Interval{Minutes: 1, Seconds: 30}, nil},
		{"", "45", timer.Interval{Minutes: 0, Seconds: 45}, nil},
		{"2", "abc", timer.Interval{Minutes: 2, Seconds: 0}, nil},
		{"0", "0", timer.Interval{}, timer.ErrZeroInterval},
		{"-1", "", timer.Interval{}, timer.ErrZeroInterval},
	}
	for _, tt := range tests {
		got, err := timer.ParseInterval(tt.minutes, tt.seconds)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseInterval(%q, %q) error = %v, want %v", tt.minutes, tt.seconds, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseInterval(%q, %q) = %+v, want %+v", tt.minutes, tt.seconds, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	var labels []string
	for _, i := range timer.PresetIntervals {
		labels = append(labels, i.String())
	}
	if diff := cmp.Diff([]string{"0:30", "0:45", "1:00", "1:30", "2:00", "2:15", "3:00"}, labels); diff != "" {
		t.Errorf("preset labels mismatch (-want +got):\n%s", diff)
	}
	if got := timer.FormatOffset(12 * time.Minute); got != "12:00" {
		t.Errorf("FormatOffset() = %q", got)
	}
}
