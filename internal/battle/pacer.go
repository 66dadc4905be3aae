package battle

import "time"

// Pacer runs fn after d. The returned function cancels the run if it has
// not started yet.
type Pacer interface {
	After(d time.Duration, fn func()) (cancel func())
}

// RealPacer waits on the wall clock
type RealPacer struct{}

// After schedules fn on its own goroutine
func (RealPacer) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ImmediatePacer runs fn before returning, for headless play and tests
type ImmediatePacer struct{}

// After runs fn now
func (ImmediatePacer) After(_ time.Duration, fn func()) func() {
	fn()
	return func() {}
}
