// Package receiver implements the two-phase emission policy: entries are
// buffered and sorted until a deadline or a soft cap, then streamed as
// they arrive. Rather than merging a sequence-numbered channel into
// strictly ordered output, this receiver sorts a bounded initial window
// by path and lets everything
// after that window through in arrival order.
package receiver

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/dl/fdx/internal/walker"
)

// Clock supplies the deadline for phase 1, made injectable so tests can
// drive the buffered-to-streaming transition synchronously instead of
// racing a real timer (Design Note §9).
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Options configures a Receiver.
type Options struct {
	// BufferWindow is the phase-1 deadline; zero disables buffering and
	// starts in streaming mode immediately.
	BufferWindow time.Duration
	// BufferSoftCap ends phase 1 early once this many entries have
	// accumulated, even before the deadline.
	BufferSoftCap int
	// MaxResults is a hard cap on emitted entries; zero means unbounded.
	MaxResults int
	// BatchAll accumulates the entire run and sorts once, skipping phase 1
	// entirely — the --exec-batch / -X mode, where the executor needs the
	// complete, globally sorted set before it can chunk argv.
	BatchAll bool
	Clock    Clock
	// Cancel is set once MaxResults is reached, so the walker can stop
	// producing further entries.
	Cancel *atomic.Bool
}

// Receiver drains a walker entry channel and calls Emit for each entry in
// a stable, mostly-sorted order without stalling on a slow branch.
type Receiver struct {
	opts Options
	emit func(*walker.Entry)
}

// New builds a Receiver that calls emit for each entry in final order.
func New(opts Options, emit func(*walker.Entry)) *Receiver {
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Cancel == nil {
		opts.Cancel = new(atomic.Bool)
	}
	if opts.BufferSoftCap == 0 {
		opts.BufferSoftCap = 4096
	}
	return &Receiver{opts: opts, emit: emit}
}

// Run drains entries until the channel closes or MaxResults is reached,
// returning the total number of entries emitted.
func (r *Receiver) Run(entries <-chan *walker.Entry) int {
	if r.opts.BatchAll {
		return r.runBatchAll(entries)
	}
	return r.runTwoPhase(entries)
}

func (r *Receiver) runBatchAll(entries <-chan *walker.Entry) int {
	var all []*walker.Entry
	for e := range entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	return r.emitCapped(all)
}

func (r *Receiver) runTwoPhase(entries <-chan *walker.Entry) int {
	emitted := 0

	var deadline <-chan time.Time
	if r.opts.BufferWindow > 0 {
		deadline = r.opts.Clock.After(r.opts.BufferWindow)
	} else {
		immediate := make(chan time.Time, 1)
		immediate <- time.Time{}
		deadline = immediate
	}

	var buf []*walker.Entry
	buffering := true

phase1:
	for buffering {
		select {
		case e, ok := <-entries:
			if !ok {
				break phase1
			}
			buf = append(buf, e)
			if len(buf) >= r.opts.BufferSoftCap {
				buffering = false
			}
		case <-deadline:
			buffering = false
		}
	}

	sort.Slice(buf, func(i, j int) bool { return buf[i].Path < buf[j].Path })
	n := r.emitCapped(buf)
	emitted += n
	if r.capped(emitted) {
		r.opts.Cancel.Store(true)
		drain(entries)
		return emitted
	}

	for e := range entries {
		r.emit(e)
		emitted++
		if r.capped(emitted) {
			r.opts.Cancel.Store(true)
			drain(entries)
			break
		}
	}
	return emitted
}

// drain discards whatever remains on entries without blocking the
// caller's return. Once MaxResults has been reached the cancellation
// flag is set, but walker workers poll it between children — a worker
// already mid-send on entries would otherwise block forever once this
// receiver stops reading.
func drain(entries <-chan *walker.Entry) {
	go func() {
		for range entries {
		}
	}()
}

func (r *Receiver) emitCapped(entries []*walker.Entry) int {
	n := 0
	for _, e := range entries {
		if r.capped(n) {
			r.opts.Cancel.Store(true)
			break
		}
		r.emit(e)
		n++
	}
	return n
}

func (r *Receiver) capped(emitted int) bool {
	return r.opts.MaxResults > 0 && emitted >= r.opts.MaxResults
}
