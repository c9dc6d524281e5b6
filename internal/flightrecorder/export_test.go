package flightrecorder

import "time"

// SetNow replaces the clock used for cooldowns.
func (r *Recorder) SetNow(now func() time.Time) {
	r.now = now
}
