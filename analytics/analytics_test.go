package analytics

import (
	"testing"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
)

func item(source models.SourceType, score float64) models.FeedItem {
	return models.FeedItem{Title: "t", SourceType: source, Score: score}
}

func TestBuildEmpty(t *testing.T) {
	r := Build(nil)
	if r.DigestsOverTime == nil || r.Sources == nil || r.Scores == nil {
		t.Fatal("expected empty, non-nil series")
	}
}

func TestBuildSeries(t *testing.T) {
	digests := []models.FeedDigest{
		{
			GeneratedAt: models.Timestamp{Time: time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)},
			TotalItems:  3,
			Sections: []models.FeedSection{
				{Title: "Models", Items: []models.FeedItem{item(models.SourceReddit, 5), item(models.SourceNews, 120)}},
				{Title: "Tools", Items: []models.FeedItem{item(models.SourceReddit, 12)}},
			},
		},
		{
			GeneratedAt: models.Timestamp{Time: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)},
			TotalItems:  1,
			Sections: []models.FeedSection{
				{Title: "Models", Items: []models.FeedItem{item(models.SourceGitHub, 55)}},
			},
		},
	}

	r := Build(digests)

	if len(r.DigestsOverTime) != 2 || r.DigestsOverTime[0].Date != "May 1" || r.DigestsOverTime[1].Items != 3 {
		t.Errorf("unexpected digests over time: %+v", r.DigestsOverTime)
	}
	if len(r.TopicsTimeSeries) != 2 || r.TopicsTimeSeries[0].Date != "May 1" {
		t.Fatalf("unexpected topic series: %+v", r.TopicsTimeSeries)
	}
	if r.TopicsTimeSeries[1].Topics["Models"] != 2 || r.TopicsTimeSeries[1].Topics["Tools"] != 1 {
		t.Errorf("unexpected topic counts: %+v", r.TopicsTimeSeries[1].Topics)
	}
	if len(r.AllTopics) != 2 {
		t.Errorf("expected 2 topics, got %v", r.AllTopics)
	}
	if r.Sources[0].Name != "reddit" || r.Sources[0].Value != 2 {
		t.Errorf("expected reddit first, got %+v", r.Sources)
	}

	want := []ScoreBucket{{"0-10", 1}, {"10-20", 1}, {"50-100", 1}, {"100+", 1}}
	if len(r.Scores) != len(want) {
		t.Fatalf("expected %d buckets, got %+v", len(want), r.Scores)
	}
	for i := range want {
		if r.Scores[i] != want[i] {
			t.Errorf("bucket %d: expected %+v, got %+v", i, want[i], r.Scores[i])
		}
	}
}

func TestSortedCounts(t *testing.T) {
	got := SortedCounts(map[string]int{"b": 2, "a": 2, "c": 5})
	if got[0].Name != "c" || got[1].Name != "a" || got[2].Name != "b" {
		t.Errorf("unexpected order: %+v", got)
	}
}
