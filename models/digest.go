package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the calendar-day key used for digest dates.
const DateLayout = "2006-01-02"

// Digest is one generation run of the pipeline.
type Digest struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GeneratedAt            time.Time `gorm:"not null;index" json:"generated_at"`
	IntroSummary           string    `gorm:"type:text" json:"intro_summary"`
	ProjectRecommendations string    `gorm:"type:text;not null;default:'[]'" json:"-"`
	TotalItems             int       `json:"total_items"`
	SourcesChecked         int       `json:"sources_checked"`
	CreatedAt              time.Time `json:"created_at"`

	// Picks is decoded from ProjectRecommendations whenever the row is loaded.
	Picks []ProjectPick `gorm:"-" json:"picks"`

	Articles []Article `gorm:"foreignKey:DigestID;constraint:OnDelete:CASCADE" json:"articles,omitempty"`
}

func (Digest) TableName() string {
	return "digests"
}

func (d *Digest) AfterFind(tx *gorm.DB) error {
	d.Picks = ParseProjectPicks(d.ProjectRecommendations)
	return nil
}

// Day returns the UTC calendar date the digest was generated on.
func (d Digest) Day() string {
	return d.GeneratedAt.UTC().Format(DateLayout)
}
