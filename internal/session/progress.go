package session

import "time"

// ProgressState is where the navigation progress indicator is in its
// Hidden → Indeterminate → Completing → Hidden cycle.
type ProgressState int

const (
	ProgressHidden ProgressState = iota
	ProgressIndeterminate
	ProgressCompleting
)

// Default progress timings.
const (
	DefaultFallback   = 10 * time.Second       // force-finish if the host never reports
	DefaultCompleting = 400 * time.Millisecond // dwell at 100% before hiding
)

// Progress is the loading indicator state machine for the active tab. It
// is driven entirely by explicit calls with a caller-supplied clock, so
// transitions are deterministic: the UI calls Tick from its timer loop.
type Progress struct {
	state      ProgressState
	fallbackAt time.Time
	hideAt     time.Time

	fallback   time.Duration
	completing time.Duration
}

// NewProgress creates the indicator with default timings.
func NewProgress() *Progress {
	return &Progress{
		fallback:   DefaultFallback,
		completing: DefaultCompleting,
	}
}

// SetTimings overrides the fallback and completing durations.
func (p *Progress) SetTimings(fallback, completing time.Duration) {
	p.fallback = fallback
	p.completing = completing
}

// State returns the current state.
func (p *Progress) State() ProgressState {
	return p.state
}

// Visible reports whether the indicator should be drawn at all.
func (p *Progress) Visible() bool {
	return p.state != ProgressHidden
}

// Start shows the indeterminate indicator and arms the fallback timer.
// Starting while already Indeterminate just re-arms the fallback, with no
// visual flicker.
func (p *Progress) Start(now time.Time) {
	p.state = ProgressIndeterminate
	p.fallbackAt = now.Add(p.fallback)
	p.hideAt = time.Time{}
}

// Finish fills the indicator and schedules the hide. A Finish while
// Hidden is a no-op; while Completing it leaves the existing hide
// deadline alone.
func (p *Progress) Finish(now time.Time) {
	if p.state != ProgressIndeterminate {
		return
	}
	p.state = ProgressCompleting
	p.hideAt = now.Add(p.completing)
}

// Tick advances deadline-driven transitions and reports whether the state
// changed. An expired fallback behaves exactly like Finish; an expired
// hide deadline resets to Hidden.
func (p *Progress) Tick(now time.Time) bool {
	changed := false
	if p.state == ProgressIndeterminate && !now.Before(p.fallbackAt) {
		p.Finish(now)
		changed = true
	}
	if p.state == ProgressCompleting && !now.Before(p.hideAt) {
		p.state = ProgressHidden
		p.hideAt = time.Time{}
		p.fallbackAt = time.Time{}
		changed = true
	}
	return changed
}
