package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/myrjola/liftcalc/internal/calculator"
	"github.com/myrjola/liftcalc/internal/progression"
	"github.com/myrjola/liftcalc/internal/timer"
	"github.com/myrjola/liftcalc/internal/weight"
)

type timerRow struct {
	Number int
	Offset time.Duration
	At     time.Time
	// Weight is empty when there is no calculation to pair the set with.
	Weight string
	Next   bool
	Done   bool
}

type timerTemplateData struct {
	BaseTemplateData
	Patterns  []timer.Pattern
	Pattern   timer.Pattern
	Presets   []timer.Interval
	Interval  timer.Interval
	Minutes   string
	Seconds   string
	Sets      int
	Start     time.Time
	Rows      []timerRow
	HasNext   bool
	NextIndex int
}

// timerGET lays out the rest schedule of the current calculation, starting at the next interval boundary.
func (app *application) timerGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	in, result, err := app.currentResult(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	pattern, ok := timer.LookupPattern(query.Get("pattern"))
	if !ok {
		pattern, _ = timer.LookupPattern(timer.PatternOneRepMax)
		if in.Mode == calculator.ModeUniform {
			pattern, _ = timer.LookupPattern(timer.PatternUniform)
		}
	}

	interval := intervalFromSeconds(query.Get("interval"))
	if pattern.Custom {
		// An empty custom interval keeps the preset.
		if custom, parseErr := timer.ParseInterval(query.Get("minutes"), query.Get("seconds")); parseErr == nil {
			interval = custom
		}
	}

	setCount := len(result.Sets)
	if setCount == 0 {
		setCount = progression.OneRepMaxSets
		if pattern.ID == timer.PatternUniform {
			setCount = progression.DefaultUniformSets
		}
	}
	setCount = weight.ParseCount(query.Get("sets"), setCount)

	now := app.now()
	start := timer.AlignStart(now, interval.Duration())
	offsets := timer.Offsets(pattern.ID, interval.Duration(), setCount)
	schedule := timer.Schedule(start, offsets)
	nextIndex, _, hasNext := timer.NextSet(schedule, now)

	rows := make([]timerRow, len(schedule))
	for i, at := range schedule {
		rows[i] = timerRow{
			Number: i + 1,
			Offset: offsets[i],
			At:     at,
			Weight: "",
			Next:   hasNext && i == nextIndex,
			Done:   !at.After(now),
		}
		if i < len(result.Sets) {
			rows[i].Weight = weight.Format(result.Sets[i].Weight)
		}
	}

	data := timerTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Patterns:         timer.Patterns,
		Pattern:          pattern,
		Presets:          timer.PresetIntervals,
		Interval:         interval,
		Minutes:          strconv.Itoa(interval.Minutes),
		Seconds:          strconv.Itoa(interval.Seconds),
		Sets:             setCount,
		Start:            start,
		Rows:             rows,
		HasNext:          hasNext,
		NextIndex:        nextIndex,
	}
	app.render(w, r, http.StatusOK, "timer", data)
}

// intervalFromSeconds reads a preset interval given in seconds, falling back to the default rest.
func intervalFromSeconds(raw string) timer.Interval {
	total := weight.ParseCount(raw, 0)
	if total <= 0 {
		total = int(timer.DefaultInterval / time.Second)
	}
	return timer.Interval{Minutes: total / 60, Seconds: total % 60} //nolint:mnd // seconds per minute.
}
