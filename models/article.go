package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type SourceType string

const (
	SourceReddit  SourceType = "reddit"
	SourceYouTube SourceType = "youtube"
	SourceNews    SourceType = "news"
	SourceGitHub  SourceType = "github"
)

// Valid reports whether s is one of the known source types.
func (s SourceType) Valid() bool {
	switch s {
	case SourceReddit, SourceYouTube, SourceNews, SourceGitHub:
		return true
	}
	return false
}

// Article is a curated item that belongs to exactly one digest.
type Article struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DigestID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"digest_id"`
	ItemHash       string         `gorm:"type:varchar(32);index" json:"item_hash"`
	Title          string         `gorm:"not null" json:"title"`
	Slug           string         `gorm:"uniqueIndex;not null" json:"slug"`
	URL            string         `json:"url"`
	SourceName     string         `json:"source_name"`
	SourceType     SourceType     `gorm:"type:varchar(16);index" json:"source_type"`
	PublishedAt    *time.Time     `gorm:"index" json:"published_at"`
	Score          float64        `gorm:"index" json:"score"`
	MatchedTopics  pq.StringArray `gorm:"type:text[]" json:"matched_topics"`
	Summary        string         `gorm:"type:text" json:"summary"`
	ContentSnippet string         `gorm:"type:text" json:"content_snippet"`
	Extra          datatypes.JSON `gorm:"type:jsonb" json:"extra"`
	SectionTitle   string         `json:"section_title"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
}

func (Article) TableName() string {
	return "articles"
}
