package controllers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/felipepimentel/ai-news-digest/store"
	"github.com/google/uuid"
)

var errDown = errors.New("database unavailable")

// fakeStore implements the handful of Store methods a test needs; the
// embedded interface panics on anything else.
type fakeStore struct {
	Store

	mu          sync.Mutex
	latest      *models.Digest
	withPicks   []models.Digest
	articles    map[string]*models.Article
	clicks      []uuid.UUID
	subscribers map[string]*models.Subscriber
	archive     []models.FeedDigest
	digests     map[uuid.UUID]*models.Digest
	failLists   bool
	failClicks  bool

	latestCalls  atomic.Int32
	archiveCalls atomic.Int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		articles:    map[string]*models.Article{},
		subscribers: map[string]*models.Subscriber{},
		digests:     map[uuid.UUID]*models.Digest{},
	}
}

func (f *fakeStore) LatestDigest(ctx context.Context) (*models.Digest, error) {
	f.latestCalls.Add(1)
	if f.latest == nil {
		return nil, store.ErrNotFound
	}
	return f.latest, nil
}

func (f *fakeStore) DigestByID(ctx context.Context, id uuid.UUID) (*models.Digest, error) {
	d, ok := f.digests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return d, nil
}

func (f *fakeStore) DigestsWithPicks(ctx context.Context, limit int) ([]models.Digest, error) {
	if f.failLists {
		return nil, errDown
	}
	return f.withPicks, nil
}

func (f *fakeStore) Digests(ctx context.Context, limit, offset int) ([]models.Digest, error) {
	return nil, errDown
}

func (f *fakeStore) AllDigests(ctx context.Context) ([]models.FeedDigest, error) {
	f.archiveCalls.Add(1)
	return f.archive, nil
}

func (f *fakeStore) Articles(ctx context.Context, q store.ArticleQuery) ([]models.Article, error) {
	if f.failLists {
		return nil, errDown
	}
	return []models.Article{}, nil
}

func (f *fakeStore) ArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	a, ok := f.articles[slug]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) RelatedArticles(ctx context.Context, a *models.Article, limit int) ([]models.Article, error) {
	return nil, errDown
}

func (f *fakeStore) RecordClick(ctx context.Context, articleID uuid.UUID) error {
	if f.failClicks {
		return errDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, articleID)
	return nil
}

func (f *fakeStore) UpsertSubscriber(ctx context.Context, email, confirmToken, unsubToken string) (*models.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := &models.Subscriber{ID: uuid.New(), Email: email, ConfirmToken: confirmToken, UnsubToken: unsubToken}
	f.subscribers[email] = sub
	return sub, nil
}

func (f *fakeStore) ConfirmSubscriber(ctx context.Context, email string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subscribers[email]
	if !ok {
		return store.ErrNotFound
	}
	sub.Confirmed = true
	sub.ConfirmedAt = &at
	return nil
}

func (f *fakeStore) SubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subscribers[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sub, nil
}

func (f *fakeStore) DeleteSubscriber(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, sub := range f.subscribers {
		if sub.ID == id {
			delete(f.subscribers, email)
		}
	}
	return nil
}

func (f *fakeStore) RecentArticles(ctx context.Context, limit, offset int) ([]models.Article, int64, error) {
	return []models.Article{{Title: "a"}}, 41, nil
}

// The chart series return nil slices, as a Scan over zero rows may.
func (f *fakeStore) DigestsOverTime(ctx context.Context, limit int) ([]store.DigestCount, error) {
	return nil, nil
}

func (f *fakeStore) SourceDistribution(ctx context.Context) ([]store.LabelCount, error) {
	return nil, nil
}

func (f *fakeStore) TopicDistribution(ctx context.Context) ([]store.LabelCount, error) {
	return nil, errDown
}

func (f *fakeStore) PageViewsOverTime(ctx context.Context, now time.Time, days int) ([]store.DayCount, error) {
	return nil, nil
}
