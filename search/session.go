package search

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/sirupsen/logrus"
)

// Loader supplies the full archive the index is built from.
type Loader interface {
	AllDigests(ctx context.Context) ([]models.FeedDigest, error)
}

// Session holds one lazily obtained index. The index is built from its own
// loader, or taken from a shared Corpus, on the first non-blank query and
// reused for the rest of the session.
type Session struct {
	loader Loader
	corpus *Corpus
	opts   Options

	mu    sync.Mutex
	index *Index
}

func NewSession(loader Loader, opts Options) *Session {
	return &Session{loader: loader, opts: opts}
}

// NewSharedSession pins the corpus index current at its first query, so the
// session only holds a reference.
func NewSharedSession(corpus *Corpus) *Session {
	return &Session{corpus: corpus}
}

// Search answers query from the session's index, building it on first use.
// A blank query clears results without loading anything.
func (s *Session) Search(ctx context.Context, query string, limit int) []Result {
	if strings.TrimSpace(query) == "" {
		return []Result{}
	}
	idx, err := s.ensureIndex(ctx)
	if err != nil {
		return []Result{}
	}
	return idx.Search(query, limit)
}

// Built reports whether the index has been constructed.
func (s *Session) Built() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index != nil
}

func (s *Session) ensureIndex(ctx context.Context) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil {
		return s.index, nil
	}

	var (
		idx *Index
		err error
	)
	if s.corpus != nil {
		idx, err = s.corpus.Index(ctx)
	} else {
		idx, err = buildIndex(ctx, s.loader, s.opts)
	}
	if err != nil {
		return nil, err
	}
	s.index = idx
	return idx, nil
}

// buildIndex loads the archive and indexes it. Only cancellation is returned
// as an error; any other load failure yields an empty index.
func buildIndex(ctx context.Context, loader Loader, opts Options) (*Index, error) {
	var digests []models.FeedDigest
	if loader != nil {
		var err error
		digests, err = loader.AllDigests(ctx)
		if err != nil {
			// A cancelled caller should not pin an empty index.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logrus.WithError(err).Warn("search: loading archive failed, using empty corpus")
			digests = nil
		}
	}

	docs := Flatten(digests)
	idx := NewIndex(docs, opts)
	logrus.WithFields(logrus.Fields{
		"digests":   len(digests),
		"documents": len(docs),
	}).Info("search: index built")
	return idx, nil
}
