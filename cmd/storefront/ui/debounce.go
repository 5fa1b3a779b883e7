package ui

import (
	"sync"
	"time"
	"unicode/utf8"
)

// Debouncer provides debouncing for rapid events like keystrokes.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a new debouncer with the specified duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
	}
}

// Debounce executes the function after the debounce duration has elapsed
// without any new calls. Rapid successive calls reset the timer.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel cancels any pending debounced function call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate executes the function immediately and cancels any pending call.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// SearchDebouncer drives search-as-you-type. Each accepted query gets a
// sequence number; results arriving for an older sequence are stale and
// must be dropped. Queries shorter than the minimum rune count cancel any
// pending dispatch instead of firing one.
type SearchDebouncer struct {
	mu        sync.Mutex
	debouncer *Debouncer
	minRunes  int
	seq       uint64
	pending   string
}

// NewSearchDebouncer creates a search debouncer. Queries with fewer than
// minRunes runes never dispatch.
func NewSearchDebouncer(duration time.Duration, minRunes int) *SearchDebouncer {
	return &SearchDebouncer{
		debouncer: NewDebouncer(duration),
		minRunes:  minRunes,
	}
}

// Type records a keystroke's resulting query. When the query is long
// enough, dispatch is called after the debounce window with the query and
// its sequence number. A short query cancels any pending dispatch and
// still advances the sequence so in-flight results for longer prefixes
// become stale.
func (sd *SearchDebouncer) Type(query string, dispatch func(query string, seq uint64)) {
	sd.mu.Lock()
	sd.seq++
	seq := sd.seq
	sd.pending = query
	sd.mu.Unlock()

	if utf8.RuneCountInString(query) < sd.minRunes {
		sd.debouncer.Cancel()
		return
	}
	sd.debouncer.Debounce(func() {
		dispatch(query, seq)
	})
}

// Fresh reports whether seq is the latest dispatched sequence. Pages call
// this when a result message arrives to discard superseded responses.
func (sd *SearchDebouncer) Fresh(seq uint64) bool {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	return seq == sd.seq
}

// Cancel drops any pending dispatch and invalidates in-flight results.
func (sd *SearchDebouncer) Cancel() {
	sd.mu.Lock()
	sd.seq++
	sd.mu.Unlock()
	sd.debouncer.Cancel()
}
