package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/google/uuid"
)

const (
	SortScore = "score"
	SortDate  = "date"
)

// ArticleQuery filters the article listing. Zero values mean no filter.
type ArticleQuery struct {
	Topic  string
	Source models.SourceType
	Sort   string
	Limit  int
	Offset int
}

func (q ArticleQuery) order() string {
	if q.Sort == SortDate {
		return "published_at DESC NULLS LAST"
	}
	return "score DESC"
}

func (s *Store) Articles(ctx context.Context, q ArticleQuery) ([]models.Article, error) {
	limit, offset := Page(q.Limit, q.Offset, DefaultArticlePage)

	db := s.conn(ctx).Model(&models.Article{})
	if topic := strings.TrimSpace(q.Topic); topic != "" {
		db = db.Where("matched_topics @> ARRAY[?]::text[]", topic)
	}
	if q.Source != "" {
		db = db.Where("source_type = ?", q.Source)
	}

	var articles []models.Article
	err := db.Order(q.order()).Offset(offset).Limit(limit).Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return articles, nil
}

func (s *Store) ArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	if err := s.conn(ctx).Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, notFound(err)
	}
	return &article, nil
}

// SearchArticles runs a web-style full-text query over the generated
// search_vector column.
func (s *Store) SearchArticles(ctx context.Context, query string, limit int) ([]models.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Article{}, nil
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultSearchLimit
	}

	var articles []models.Article
	err := s.conn(ctx).
		Where("search_vector @@ websearch_to_tsquery('english', ?)", query).
		Order("score DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("searching articles for %q: %w", query, err)
	}
	return articles, nil
}

// RelatedArticles returns articles sharing the first topic of a, excluding a.
func (s *Store) RelatedArticles(ctx context.Context, a *models.Article, limit int) ([]models.Article, error) {
	if len(a.MatchedTopics) == 0 {
		return []models.Article{}, nil
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	var articles []models.Article
	err := s.conn(ctx).
		Where("matched_topics @> ARRAY[?]::text[]", a.MatchedTopics[0]).
		Where("id <> ?", a.ID).
		Order("score DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("loading related articles: %w", err)
	}
	return articles, nil
}

func (s *Store) RecordClick(ctx context.Context, articleID uuid.UUID) error {
	click := models.ArticleClick{ArticleID: articleID}
	if err := s.conn(ctx).Create(&click).Error; err != nil {
		return fmt.Errorf("recording click: %w", err)
	}
	return nil
}

// RecordPageView is best effort; callers usually ignore the error.
func (s *Store) RecordPageView(ctx context.Context, path string) error {
	return s.conn(ctx).Create(&models.PageView{Path: path}).Error
}
