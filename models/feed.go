package models

import (
	"encoding/json"
	"strings"
	"time"
)

// IndexEntry is one line of the static feed index.
type IndexEntry struct {
	ID             string    `json:"id"`
	DigestID       string    `json:"digest_id,omitempty"`
	GeneratedAt    Timestamp `json:"generated_at"`
	TotalItems     int       `json:"total_items"`
	SourcesChecked int       `json:"sources_checked"`
	IntroSnippet   string    `json:"intro_snippet"`
}

// FeedDigest is the nested, file-per-digest form of a digest. ID is the feed
// file id; DigestID carries the database id when the digest came from there.
type FeedDigest struct {
	ID                     string        `json:"id"`
	DigestID               string        `json:"digest_id,omitempty"`
	GeneratedAt            Timestamp     `json:"generated_at"`
	IntroSummary           string        `json:"intro_summary"`
	ProjectRecommendations string        `json:"project_recommendations"`
	TotalItems             int           `json:"total_items"`
	SourcesChecked         int           `json:"sources_checked"`
	Sections               []FeedSection `json:"sections"`
}

// Picks decodes the digest's recommendation blob.
func (d FeedDigest) Picks() []ProjectPick {
	return ParseProjectPicks(d.ProjectRecommendations)
}

type FeedSection struct {
	Title string     `json:"title"`
	Items []FeedItem `json:"items"`
}

type FeedItem struct {
	ItemID        string         `json:"item_id"`
	Title         string         `json:"title"`
	URL           string         `json:"url"`
	SourceName    string         `json:"source_name"`
	SourceType    SourceType     `json:"source_type"`
	Published     *Timestamp     `json:"published"`
	Score         float64        `json:"score"`
	MatchedTopics []string       `json:"matched_topics"`
	Summary       string         `json:"summary"`
	Extra         map[string]any `json:"extra"`
}

// Timestamp accepts the ISO-8601 variants the pipeline writes, with or
// without a zone offset. Values without an offset are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseTimestamp tries each known layout in turn.
func ParseTimestamp(value string) (Timestamp, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Timestamp{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Timestamp{Time: t}, true
		}
	}
	return Timestamp{}, false
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseTimestamp(raw)
	if !ok {
		return &time.ParseError{Layout: time.RFC3339, Value: raw, Message: ": unrecognised timestamp"}
	}
	*t = parsed
	return nil
}

// FeedID is the file name stem used for a digest in the static feed.
func FeedID(generatedAt time.Time) string {
	return generatedAt.UTC().Format("20060102_150405")
}
