package port

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/kelthane-iot/alplink/internal/timersrc"
)

// readEvent carries one Read() result from the reader goroutine to
// the single dispatch loop in Run.
type readEvent struct {
	chunk []byte
	err   error
}

// Run drives the single-threaded dispatch loop (spec §5) until ctx is
// canceled or the port reports a non-timeout read error. A background
// goroutine does nothing but turn port.Read (which blocks for up to
// the configured read timeout, per the teacher's tarm/serial-backed
// Port) into channel sends; every Session.Receive/Diagnostics call
// still happens on this single goroutine, so there is no concurrent
// access to session state.
func (a *Adapter) Run(ctx context.Context) error {
	events := make(chan readEvent, 1)
	done := make(chan struct{})
	go a.readLoop(events, done)
	defer close(done)

	a.diag = timersrc.Start(a.cfg.DiagnosticsInterval, func(now time.Time) bool {
		return a.session.Diagnostics(now)
	})
	defer a.diag.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if ev.err != nil {
				if errors.Is(ev.err, io.EOF) {
					return ev.err
				}
				if isTimeout(ev.err) {
					continue
				}
				return ev.err
			}
			if len(ev.chunk) > 0 {
				a.session.Receive(ev.chunk)
			}

		case t := <-a.diag.C():
			a.diag.Fire(t)
			if a.diag.Stopped() {
				return nil
			}
		}
	}
}

func (a *Adapter) readLoop(events chan<- readEvent, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		n, err := a.port.Read(a.readBuf)
		var chunk []byte
		if n > 0 {
			chunk = append([]byte(nil), a.readBuf[:n]...)
		}

		select {
		case events <- readEvent{chunk: chunk, err: err}:
		case <-done:
			return
		}

		if err != nil && !isTimeout(err) {
			return
		}
	}
}

type timeoutError interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	te, ok := err.(timeoutError)
	return ok && te.Timeout()
}
