package staticfeed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/samber/lo"
)

const snippetFallbackLen = 200

// Exporter writes digests to a feed directory.
type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Export writes one file per digest and merges them into the index. Entries
// already in the index are replaced when re-exported and kept otherwise.
// Digests whose file id is already taken by another digest get a numeric
// suffix instead of overwriting it.
func (e *Exporter) Export(digests []models.FeedDigest) error {
	if err := os.MkdirAll(filepath.Join(e.dir, DigestsDir), 0o755); err != nil {
		return fmt.Errorf("creating feed dir: %w", err)
	}

	existing, err := e.readIndex()
	if err != nil {
		return err
	}
	digests = AssignFileIDs(existing, digests)

	for _, d := range digests {
		path := filepath.Join(e.dir, DigestsDir, d.ID+".json")
		if err := writeJSON(path, d); err != nil {
			return fmt.Errorf("writing digest %s: %w", d.ID, err)
		}
	}

	fresh := lo.Map(digests, func(d models.FeedDigest, _ int) models.IndexEntry {
		return IndexEntryFor(d)
	})
	index := MergeIndex(existing, fresh)

	if err := writeJSON(filepath.Join(e.dir, IndexFile), index); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

func (e *Exporter) readIndex() ([]models.IndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(e.dir, IndexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	var index []models.IndexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		// A corrupt index is rebuilt from what is being exported.
		return nil, nil
	}
	return index, nil
}

// MergeIndex replaces entries with matching ids and orders the result newest
// first.
func MergeIndex(existing, fresh []models.IndexEntry) []models.IndexEntry {
	replaced := lo.SliceToMap(fresh, func(e models.IndexEntry) (string, struct{}) {
		return e.ID, struct{}{}
	})
	merged := lo.Filter(existing, func(e models.IndexEntry, _ int) bool {
		_, ok := replaced[e.ID]
		return !ok
	})
	merged = append(merged, fresh...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].GeneratedAt.After(merged[j].GeneratedAt.Time)
	})
	return merged
}

// AssignFileIDs returns copies of digests with file ids that do not collide
// with each other or with index entries owned by a different digest. A
// digest keeps its id when the existing entry carries the same DigestID.
func AssignFileIDs(existing []models.IndexEntry, digests []models.FeedDigest) []models.FeedDigest {
	owners := lo.SliceToMap(existing, func(e models.IndexEntry) (string, string) {
		return e.ID, e.DigestID
	})
	used := make(map[string]struct{}, len(digests))

	out := make([]models.FeedDigest, len(digests))
	for i, d := range digests {
		id := d.ID
		for n := 2; ; n++ {
			owner, exists := owners[id]
			_, taken := used[id]
			if !taken && (!exists || owner == d.DigestID) {
				break
			}
			id = fmt.Sprintf("%s_%d", d.ID, n)
		}
		used[id] = struct{}{}
		d.ID = id
		out[i] = d
	}
	return out
}

func IndexEntryFor(d models.FeedDigest) models.IndexEntry {
	return models.IndexEntry{
		ID:             d.ID,
		DigestID:       d.DigestID,
		GeneratedAt:    d.GeneratedAt,
		TotalItems:     d.TotalItems,
		SourcesChecked: d.SourcesChecked,
		IntroSnippet:   IntroSnippet(d.IntroSummary),
	}
}

// IntroSnippet keeps the first sentence of intro, or its first 200
// characters when there is no sentence break.
func IntroSnippet(intro string) string {
	if pos := strings.Index(intro, ". "); pos > 0 {
		return intro[:pos+1]
	}
	runes := []rune(intro)
	if len(runes) > snippetFallbackLen {
		runes = runes[:snippetFallbackLen]
	}
	return string(runes)
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
