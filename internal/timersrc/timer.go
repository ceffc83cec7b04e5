// Package timersrc provides the periodic-callback timer facility that
// spec.md §1 names as an external collaborator: "a timer-source facility
// assumed to provide periodic callbacks with add/remove primitives."
//
// The shape is grounded on the teacher's core/scheduler.go and
// core/trsync.go: a handler is registered once, fires on an interval,
// and its return value decides whether it gets rescheduled (there:
// SF_DONE/SF_RESCHEDULE; here: a plain bool) or removed. Unlike the
// teacher's hardware tick list, this runs on a host clock via
// time.Timer — there is no interrupt-disable/re-enable pairing to
// preserve, just a single-threaded dispatch loop per port (spec §5).
package timersrc

import "time"

// Handler is invoked when its interval elapses. A true return
// reschedules it for another interval; false removes it permanently —
// mirroring the teacher's SF_RESCHEDULE/SF_DONE convention.
type Handler func(now time.Time) bool

// Source runs one Handler on a fixed interval until the handler returns
// false or Stop is called. It is not safe for concurrent use from
// multiple goroutines; the single-threaded cooperative model (spec §5)
// means exactly one caller drives a given Source.
type Source struct {
	interval time.Duration
	handler  Handler
	timer    *time.Timer
	stopped  bool
}

// Start registers handler to fire once after interval, then again after
// every interval it returns true for. The caller must arrange for Fire
// to be invoked when the channel from C is ready to drive the
// handler, as the port package's Adapter.Run does.
func Start(interval time.Duration, handler Handler) *Source {
	s := &Source{interval: interval, handler: handler}
	s.timer = time.NewTimer(interval)
	return s
}

// C returns the channel that fires when the interval elapses.
func (s *Source) C() <-chan time.Time {
	if s.timer == nil {
		return nil
	}
	return s.timer.C
}

// Fire runs the handler for a tick received from C(), and reschedules
// or stops the underlying timer based on the handler's return value.
func (s *Source) Fire(now time.Time) {
	if s.stopped {
		return
	}
	if s.handler(now) {
		s.timer.Reset(s.interval)
	} else {
		s.Stop()
	}
}

// Stop removes the timer. Safe to call more than once.
func (s *Source) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Stopped reports whether the timer has been removed, either because
// the handler returned false or Stop was called.
func (s *Source) Stopped() bool {
	return s.stopped
}
