package staticfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
)

func feedDigest(at time.Time, intro string, titles ...string) models.FeedDigest {
	items := make([]models.FeedItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, models.FeedItem{Title: title, SourceName: "Hacker News", SourceType: models.SourceNews})
	}
	return models.FeedDigest{
		ID:                     models.FeedID(at),
		GeneratedAt:            models.Timestamp{Time: at},
		IntroSummary:           intro,
		ProjectRecommendations: "[]",
		TotalItems:             len(items),
		SourcesChecked:         3,
		Sections:               []models.FeedSection{{Title: "Top", Items: items}},
	}
}

func exportSample(t *testing.T) (string, []models.FeedDigest) {
	t.Helper()
	dir := t.TempDir()
	digests := []models.FeedDigest{
		feedDigest(time.Date(2025, 4, 2, 6, 0, 0, 0, time.UTC), "Agents everywhere. More below.", "Agents", "Evals"),
		feedDigest(time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC), "Quiet day", "Tokenizers"),
	}
	if err := NewExporter(dir).Export(digests); err != nil {
		t.Fatalf("export: %v", err)
	}
	return dir, digests
}

func TestExportWritesIndexAndDigests(t *testing.T) {
	dir, digests := exportSample(t)

	c := NewClient(dir)
	index, err := c.Index(context.Background())
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("expected 2 index entries, got %d", len(index))
	}
	if index[0].ID != digests[0].ID {
		t.Errorf("expected newest first, got %s", index[0].ID)
	}
	if index[0].IntroSnippet != "Agents everywhere." {
		t.Errorf("unexpected snippet %q", index[0].IntroSnippet)
	}

	all, err := c.AllDigests(context.Background())
	if err != nil {
		t.Fatalf("all digests: %v", err)
	}
	if len(all) != 2 || len(all[0].Sections[0].Items) != 2 {
		t.Fatalf("unexpected digests: %+v", all)
	}
}

func TestExportMergesIndex(t *testing.T) {
	dir, digests := exportSample(t)

	newer := feedDigest(time.Date(2025, 4, 3, 6, 0, 0, 0, time.UTC), "Fresh.", "Robots")
	rerun := digests[1]
	rerun.IntroSummary = "Rerun. Updated."
	if err := NewExporter(dir).Export([]models.FeedDigest{newer, rerun}); err != nil {
		t.Fatalf("export: %v", err)
	}

	index, err := NewClient(dir).Index(context.Background())
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(index) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(index))
	}
	if index[0].ID != newer.ID || index[2].ID != rerun.ID {
		t.Errorf("unexpected order: %s, %s, %s", index[0].ID, index[1].ID, index[2].ID)
	}
	if index[2].IntroSnippet != "Rerun." {
		t.Errorf("expected re-exported entry to be replaced, got %q", index[2].IntroSnippet)
	}
}

func TestExportKeepsDigestsFromTheSameSecond(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	first := feedDigest(at, "First.", "Agents")
	first.DigestID = "a"
	second := feedDigest(at, "Second.", "Robots")
	second.DigestID = "b"

	exp := NewExporter(dir)
	if err := exp.Export([]models.FeedDigest{first, second}); err != nil {
		t.Fatalf("export: %v", err)
	}
	// A rerun must reuse the ids assigned the first time.
	if err := exp.Export([]models.FeedDigest{second, first}); err != nil {
		t.Fatalf("re-export: %v", err)
	}

	c := NewClient(dir)
	index, err := c.Index(context.Background())
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(index))
	}
	byDigest := map[string]string{}
	for _, e := range index {
		byDigest[e.DigestID] = e.ID
	}
	if byDigest["a"] != "20250620_120000" || byDigest["b"] != "20250620_120000_2" {
		t.Fatalf("unexpected file ids: %v", byDigest)
	}

	d, err := c.Digest(context.Background(), byDigest["b"])
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if d.IntroSummary != "Second." {
		t.Errorf("expected second digest, got %q", d.IntroSummary)
	}
	files, _ := filepath.Glob(filepath.Join(dir, DigestsDir, "*.json"))
	if len(files) != 2 {
		t.Errorf("expected 2 digest files, got %d", len(files))
	}
}

func TestClientCachesSuccessfulReads(t *testing.T) {
	dir, digests := exportSample(t)
	c := NewClient(dir)

	if _, err := c.Digest(context.Background(), digests[0].ID); err != nil {
		t.Fatalf("digest: %v", err)
	}
	if _, err := c.Index(context.Background()); err != nil {
		t.Fatalf("index: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if d, err := c.Digest(context.Background(), digests[0].ID); err != nil || d == nil {
		t.Errorf("expected cached digest, got %v", err)
	}
	if index, err := c.Index(context.Background()); err != nil || len(index) != 2 {
		t.Errorf("expected cached index, got %d entries, err %v", len(index), err)
	}
}

func TestClientDoesNotCacheFailures(t *testing.T) {
	dir := t.TempDir()
	c := NewClient(dir)

	index, err := c.Index(context.Background())
	if err == nil {
		t.Fatal("expected an error for a missing index")
	}
	if index == nil || len(index) != 0 {
		t.Errorf("expected empty index on failure, got %#v", index)
	}

	if err := NewExporter(dir).Export([]models.FeedDigest{
		feedDigest(time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC), "Hi", "One"),
	}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if index, err := c.Index(context.Background()); err != nil || len(index) != 1 {
		t.Errorf("expected retry to succeed, got %d entries, err %v", len(index), err)
	}
}

func TestClientRejectsPathIDs(t *testing.T) {
	c := NewClient(t.TempDir())
	for _, id := range []string{"", "../secret", "a/b"} {
		if _, err := c.Digest(context.Background(), id); err == nil {
			t.Errorf("%q: expected an error", id)
		}
	}
}

func TestClientSkipsBrokenDigests(t *testing.T) {
	dir, digests := exportSample(t)
	broken := filepath.Join(dir, DigestsDir, digests[1].ID+".json")
	if err := os.WriteFile(broken, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	all, err := NewClient(dir).AllDigests(context.Background())
	if err != nil {
		t.Fatalf("all digests: %v", err)
	}
	if len(all) != 1 || all[0].ID != digests[0].ID {
		t.Fatalf("expected only the readable digest, got %d", len(all))
	}
}

func TestClientOverHTTP(t *testing.T) {
	dir, _ := exportSample(t)
	var hits atomic.Int32
	fs := http.FileServer(http.Dir(dir))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		r.URL.Path = strings.TrimPrefix(r.URL.Path, "/data")
		fs.ServeHTTP(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/data/")
	all, err := c.AllDigests(context.Background())
	if err != nil {
		t.Fatalf("all digests: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 digests, got %d", len(all))
	}
	before := hits.Load()
	if _, err := c.AllDigests(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if hits.Load() != before {
		t.Errorf("expected cached second load, got %d extra requests", hits.Load()-before)
	}
}

func TestClientHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such feed"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Index(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no such feed") {
		t.Fatalf("expected the feed error message, got %v", err)
	}
}

func TestIntroSnippet(t *testing.T) {
	if got := IntroSnippet("First. Second."); got != "First." {
		t.Errorf("expected first sentence, got %q", got)
	}
	if got := IntroSnippet(". Leading"); got != ". Leading" {
		t.Errorf("expected a break at position 0 to be ignored, got %q", got)
	}
	long := strings.Repeat("é", 250)
	if got := IntroSnippet(long); len([]rune(got)) != 200 {
		t.Errorf("expected 200 characters, got %d", len([]rune(got)))
	}
}
