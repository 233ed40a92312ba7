package store

import (
	"errors"
	"testing"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

func TestPage(t *testing.T) {
	tests := []struct {
		name                 string
		limit, offset        int
		wantLimit, wantOffet int
	}{
		{"defaults", 0, 0, 20, 0},
		{"negative offset", 10, -5, 10, 0},
		{"clamped", 1000, 40, MaxPageSize, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, o := Page(tt.limit, tt.offset, 20)
			if l != tt.wantLimit || o != tt.wantOffet {
				t.Errorf("Page(%d, %d) = %d, %d; want %d, %d", tt.limit, tt.offset, l, o, tt.wantLimit, tt.wantOffet)
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	start, end, err := DayBounds("2025-03-09")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	if !start.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if end.Day() != 9 || end.Hour() != 23 {
		t.Errorf("end = %v", end)
	}

	if _, _, err := DayBounds("09/03/2025"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDistinctDays(t *testing.T) {
	stamps := []time.Time{
		time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 8, 23, 0, 0, 0, time.UTC),
	}
	got := DistinctDays(stamps)
	if len(got) != 2 || got[0] != "2025-03-09" || got[1] != "2025-03-08" {
		t.Errorf("DistinctDays = %v", got)
	}
}

func TestPreferWithArticles(t *testing.T) {
	if _, err := preferWithArticles(nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty input: got %v, want ErrNotFound", err)
	}

	empty := models.Digest{ID: uuid.New()}
	full := models.Digest{ID: uuid.New(), Articles: []models.Article{{Title: "a"}}}

	got, err := preferWithArticles([]models.Digest{empty, full})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != full.ID {
		t.Errorf("picked %v, want the digest with articles", got.ID)
	}

	got, err = preferWithArticles([]models.Digest{empty})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != empty.ID || got.Articles == nil {
		t.Errorf("fallback should be newest digest with a non-nil empty article list")
	}
}

func TestArticleQueryOrder(t *testing.T) {
	if got := (ArticleQuery{}).order(); got != "score DESC" {
		t.Errorf("default order = %q", got)
	}
	if got := (ArticleQuery{Sort: SortDate}).order(); got != "published_at DESC NULLS LAST" {
		t.Errorf("date order = %q", got)
	}
}

func TestToFeedDigest(t *testing.T) {
	published := time.Date(2025, 3, 9, 5, 0, 0, 0, time.UTC)
	d := models.Digest{
		GeneratedAt:            time.Date(2025, 3, 9, 7, 30, 15, 0, time.UTC),
		IntroSummary:           "Intro.",
		ProjectRecommendations: "[]",
		TotalItems:             3,
		Articles: []models.Article{
			{Title: "one", SectionTitle: "Agents", ItemHash: "h1", Extra: datatypes.JSON(`{"stars":5}`)},
			{Title: "two", SectionTitle: "Research", PublishedAt: &published, MatchedTopics: pq.StringArray{"llm"}},
			{Title: "three", SectionTitle: "Agents"},
		},
	}

	d.ID = uuid.New()
	feed := ToFeedDigest(d)
	if feed.ID != "20250309_073015" {
		t.Errorf("ID = %q", feed.ID)
	}
	if feed.DigestID != d.ID.String() {
		t.Errorf("DigestID = %q, want %s", feed.DigestID, d.ID)
	}
	if len(feed.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(feed.Sections))
	}
	if feed.Sections[0].Title != "Agents" || len(feed.Sections[0].Items) != 2 {
		t.Errorf("first section = %+v", feed.Sections[0])
	}
	if feed.Sections[0].Items[0].Extra["stars"] != float64(5) {
		t.Errorf("extra not decoded: %v", feed.Sections[0].Items[0].Extra)
	}
	if feed.Sections[0].Items[1].MatchedTopics == nil {
		t.Error("matched topics should be a non-nil slice")
	}
	item := feed.Sections[1].Items[0]
	if item.Published == nil || !item.Published.Equal(published) {
		t.Errorf("published = %v", item.Published)
	}
}
