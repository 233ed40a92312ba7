package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func byScore(db *gorm.DB) *gorm.DB {
	return db.Order("score DESC")
}

// LatestDigest returns the newest digest that has articles, looking at the
// last few runs. If none of them has articles the newest digest is returned
// on its own.
func (s *Store) LatestDigest(ctx context.Context) (*models.Digest, error) {
	var digests []models.Digest
	err := s.conn(ctx).
		Preload("Articles", byScore).
		Order("generated_at DESC").
		Limit(latestDigestWindow).
		Find(&digests).Error
	if err != nil {
		return nil, fmt.Errorf("loading latest digests: %w", err)
	}
	return preferWithArticles(digests)
}

// DayBounds returns the UTC start and end of a YYYY-MM-DD date.
func DayBounds(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(models.DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return day, day.Add(24*time.Hour - time.Nanosecond), nil
}

// DigestByDate picks the digest for a UTC calendar day, preferring one with
// articles.
func (s *Store) DigestByDate(ctx context.Context, date string) (*models.Digest, error) {
	start, end, err := DayBounds(date)
	if err != nil {
		return nil, err
	}

	var digests []models.Digest
	err = s.conn(ctx).
		Preload("Articles", byScore).
		Where("generated_at BETWEEN ? AND ?", start, end).
		Order("generated_at DESC").
		Limit(latestDigestWindow).
		Find(&digests).Error
	if err != nil {
		return nil, fmt.Errorf("loading digests for %s: %w", date, err)
	}
	return preferWithArticles(digests)
}

func preferWithArticles(digests []models.Digest) (*models.Digest, error) {
	if len(digests) == 0 {
		return nil, ErrNotFound
	}
	for i := range digests {
		if len(digests[i].Articles) > 0 {
			return &digests[i], nil
		}
	}
	latest := digests[0]
	latest.Articles = []models.Article{}
	return &latest, nil
}

// AvailableDigestDates lists distinct UTC days that have a digest, newest
// first.
func (s *Store) AvailableDigestDates(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultDatesLimit
	}
	var stamps []time.Time
	err := s.conn(ctx).
		Model(&models.Digest{}).
		Order("generated_at DESC").
		Limit(limit).
		Pluck("generated_at", &stamps).Error
	if err != nil {
		return nil, fmt.Errorf("loading digest dates: %w", err)
	}
	return DistinctDays(stamps), nil
}

// DistinctDays maps timestamps to UTC dates, keeping first occurrences.
func DistinctDays(stamps []time.Time) []string {
	seen := make(map[string]struct{}, len(stamps))
	days := make([]string, 0, len(stamps))
	for _, ts := range stamps {
		day := ts.UTC().Format(models.DateLayout)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days
}

func (s *Store) Digests(ctx context.Context, limit, offset int) ([]models.Digest, error) {
	limit, offset = Page(limit, offset, DefaultDigestPage)
	var digests []models.Digest
	err := s.conn(ctx).
		Order("generated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&digests).Error
	if err != nil {
		return nil, fmt.Errorf("listing digests: %w", err)
	}
	return digests, nil
}

// DigestByID loads a digest with its articles, best score first.
func (s *Store) DigestByID(ctx context.Context, id uuid.UUID) (*models.Digest, error) {
	var digest models.Digest
	err := s.conn(ctx).
		Preload("Articles", byScore).
		Where("id = ?", id).
		First(&digest).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &digest, nil
}

// DigestsWithPicks lists digests that carry a non-empty recommendation blob,
// newest first. Only the columns the library needs are loaded.
func (s *Store) DigestsWithPicks(ctx context.Context, limit int) ([]models.Digest, error) {
	if limit <= 0 {
		limit = DefaultDigestPage
	}
	var digests []models.Digest
	err := s.conn(ctx).
		Select("id", "generated_at", "project_recommendations").
		Where("project_recommendations <> ? AND project_recommendations <> ?", "", "[]").
		Order("generated_at DESC").
		Limit(limit).
		Find(&digests).Error
	if err != nil {
		return nil, fmt.Errorf("loading digests with picks: %w", err)
	}
	return digests, nil
}

// AllDigests returns the archive in its nested feed form, newest first.
func (s *Store) AllDigests(ctx context.Context) ([]models.FeedDigest, error) {
	var digests []models.Digest
	err := s.conn(ctx).
		Preload("Articles", byScore).
		Order("generated_at DESC").
		Find(&digests).Error
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}

	feed := make([]models.FeedDigest, 0, len(digests))
	for _, d := range digests {
		feed = append(feed, ToFeedDigest(d))
	}
	return feed, nil
}

// ToFeedDigest nests a digest's articles under their section titles, in the
// order sections first appear. The feed id is derived from the generation
// time; the database id travels in DigestID.
func ToFeedDigest(d models.Digest) models.FeedDigest {
	var (
		sections []models.FeedSection
		position = map[string]int{}
	)
	for _, a := range d.Articles {
		i, ok := position[a.SectionTitle]
		if !ok {
			i = len(sections)
			position[a.SectionTitle] = i
			sections = append(sections, models.FeedSection{Title: a.SectionTitle})
		}
		sections[i].Items = append(sections[i].Items, toFeedItem(a))
	}
	if sections == nil {
		sections = []models.FeedSection{}
	}

	return models.FeedDigest{
		ID:                     models.FeedID(d.GeneratedAt),
		DigestID:               d.ID.String(),
		GeneratedAt:            models.Timestamp{Time: d.GeneratedAt.UTC()},
		IntroSummary:           d.IntroSummary,
		ProjectRecommendations: d.ProjectRecommendations,
		TotalItems:             d.TotalItems,
		SourcesChecked:         d.SourcesChecked,
		Sections:               sections,
	}
}

func toFeedItem(a models.Article) models.FeedItem {
	item := models.FeedItem{
		ItemID:        a.ItemHash,
		Title:         a.Title,
		URL:           a.URL,
		SourceName:    a.SourceName,
		SourceType:    a.SourceType,
		Score:         a.Score,
		MatchedTopics: []string(a.MatchedTopics),
		Summary:       a.Summary,
		Extra:         map[string]any{},
	}
	if a.PublishedAt != nil {
		item.Published = &models.Timestamp{Time: a.PublishedAt.UTC()}
	}
	if item.MatchedTopics == nil {
		item.MatchedTopics = []string{}
	}
	if len(a.Extra) > 0 {
		_ = json.Unmarshal(a.Extra, &item.Extra)
	}
	return item
}
