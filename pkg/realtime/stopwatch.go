package realtime

import "time"

// Stopwatch holds countup timing state: the time banked by earlier runs and,
// while running, the instant the current run started. It does not know about
// players or turns; the caller composes it and decides when to start and stop.
type Stopwatch struct {
	Banked    time.Duration
	StartedAt time.Time
}

// Running reports whether the stopwatch is accruing.
func (w Stopwatch) Running() bool {
	return !w.StartedAt.IsZero()
}

// Elapsed returns the banked time plus the live run, if any. A now earlier
// than StartedAt contributes nothing, so Elapsed never goes backwards.
func (w Stopwatch) Elapsed(now time.Time) time.Duration {
	if !w.Running() {
		return w.Banked
	}
	delta := now.Sub(w.StartedAt)
	if delta < 0 {
		delta = 0
	}
	return w.Banked + delta
}

// Start begins a run at now. Starting a running stopwatch is a no-op.
func (w *Stopwatch) Start(now time.Time) {
	if w.Running() {
		return
	}
	w.StartedAt = now
}

// Stop banks the live run and halts accrual.
func (w *Stopwatch) Stop(now time.Time) {
	if !w.Running() {
		return
	}
	w.Banked = w.Elapsed(now)
	w.StartedAt = time.Time{}
}

// NextWake returns the next instant the whole-second value of Elapsed changes.
// If the stopwatch is not running, returns (zero, false).
func (w Stopwatch) NextWake(now time.Time) (time.Time, bool) {
	if !w.Running() {
		return time.Time{}, false
	}
	if now.Before(w.StartedAt) {
		now = w.StartedAt
	}
	elapsed := w.Elapsed(now)
	return now.Add(time.Second - elapsed%time.Second), true
}
