package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestampLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2025-02-01T08:30:00Z":             time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC),
		"2025-02-01T08:30:00+00:00":        time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC),
		"2025-02-01T08:30:00.123456":       time.Date(2025, 2, 1, 8, 30, 0, 123456000, time.UTC),
		"2025-02-01T08:30:00":              time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC),
		"2025-02-01":                       time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		"2025-02-01T10:30:00.5+02:00":      time.Date(2025, 2, 1, 8, 30, 0, 500000000, time.UTC),
		"2025-02-01 08:30:00.000001+00:00": time.Date(2025, 2, 1, 8, 30, 0, 1000, time.UTC),
	}
	for raw, want := range cases {
		got, ok := ParseTimestamp(raw)
		if !ok {
			t.Errorf("%q: failed to parse", raw)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("%q: expected %s, got %s", raw, want, got.Time)
		}
	}

	if _, ok := ParseTimestamp("yesterday"); ok {
		t.Error("expected garbage to be rejected")
	}
}

func TestFeedDigestDecode(t *testing.T) {
	raw := `{
		"id": "20250201_083000",
		"generated_at": "2025-02-01T08:30:00.000001",
		"intro_summary": "Hello.",
		"project_recommendations": "[{\"name\":\"A\",\"description\":\"a\"}]",
		"total_items": 1,
		"sources_checked": 4,
		"sections": [{"title": "Models", "items": [{"item_id": "abc", "title": "T", "published": null, "score": 12.5, "extra": {"stars": 10}}]}]
	}`
	var d FeedDigest
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.GeneratedAt.Year() != 2025 {
		t.Errorf("unexpected generated_at %s", d.GeneratedAt.Time)
	}
	if len(d.Sections) != 1 || len(d.Sections[0].Items) != 1 {
		t.Fatalf("unexpected sections: %+v", d.Sections)
	}
	if d.Sections[0].Items[0].Published != nil {
		t.Error("expected nil published")
	}
	if len(d.Picks()) != 1 {
		t.Errorf("expected 1 pick, got %d", len(d.Picks()))
	}
}
