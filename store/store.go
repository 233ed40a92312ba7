// Package store is the query layer over the digest database. Every method
// composes filter, sort and range clauses and returns typed rows.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

const (
	DefaultDigestPage    = 20
	DefaultArticlePage   = 30
	DefaultSearchLimit   = 20
	DefaultRelatedLimit  = 4
	DefaultTablePage     = 50
	MaxPageSize          = 100
	latestDigestWindow   = 5
	DefaultDatesLimit    = 60
	DefaultOverTimeLimit = 14
	DefaultTopicLimit    = 15
	DefaultViewDays      = 30
)

// ErrNotFound is returned when a single entity lookup matches nothing.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Page clamps a limit/offset pair.
func Page(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
