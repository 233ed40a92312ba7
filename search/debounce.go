package search

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs a query only after input has been quiet for the wait
// period. Each Trigger cancels whatever was pending, and results of a
// superseded query are dropped instead of delivered.
type Debouncer struct {
	wait    time.Duration
	search  func(ctx context.Context, query string) []Result
	deliver func(query string, results []Result)

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewDebouncer wires search and deliver together. deliver is called with the
// debouncer locked and must not call back into it.
func NewDebouncer(wait time.Duration, search func(ctx context.Context, query string) []Result, deliver func(query string, results []Result)) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{wait: wait, search: search, deliver: deliver}
}

// Trigger schedules query, replacing any pending one.
func (d *Debouncer) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.seq++
	seq := d.seq

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = time.AfterFunc(d.wait, func() {
		if ctx.Err() != nil {
			return
		}
		results := d.search(ctx, query)

		d.mu.Lock()
		defer d.mu.Unlock()
		if seq != d.seq || ctx.Err() != nil {
			return
		}
		d.deliver(query, results)
	})
}

// Stop cancels anything pending. Results already in flight are discarded.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.seq++
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
