package search

import (
	"context"
	"sync"
	"time"
)

// DefaultCorpusMaxAge is how long a shared index is served before the next
// request rebuilds it.
const DefaultCorpusMaxAge = 10 * time.Minute

// Corpus builds one immutable index per archive load and hands the same
// *Index to every session that asks while it is fresh.
type Corpus struct {
	newLoader func() Loader
	opts      Options
	maxAge    time.Duration
	now       func() time.Time

	mu      sync.Mutex
	index   *Index
	builtAt time.Time
}

// NewCorpus takes a loader factory so every rebuild reads the archive
// through a fresh loader and sees newly written digests.
func NewCorpus(newLoader func() Loader, opts Options, maxAge time.Duration) *Corpus {
	if maxAge <= 0 {
		maxAge = DefaultCorpusMaxAge
	}
	return &Corpus{newLoader: newLoader, opts: opts, maxAge: maxAge, now: time.Now}
}

// Index returns the current shared index, rebuilding it once it is older
// than the max age. Concurrent callers wait for a single build.
func (c *Corpus) Index(ctx context.Context) (*Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index != nil && c.now().Sub(c.builtAt) < c.maxAge {
		return c.index, nil
	}

	idx, err := buildIndex(ctx, c.newLoader(), c.opts)
	if err != nil {
		if c.index != nil {
			return c.index, nil
		}
		return nil, err
	}
	c.index = idx
	c.builtAt = c.now()
	return idx, nil
}
