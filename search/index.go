// Package search provides a typo-tolerant, in-memory index over the digest
// archive together with the session and debounce plumbing around it.
package search

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
	"golang.org/x/text/cases"
)

const (
	KeyTitle      = "title"
	KeySummary    = "summary"
	KeySourceName = "source_name"

	DefaultThreshold = 0.4
	DefaultDistance  = 100
	DefaultLimit     = 30
	DefaultDebounce  = 300 * time.Millisecond

	// MaxQueryRunes bounds the pattern length; matching cost grows with it.
	MaxQueryRunes = 256

	// DigestDateLayout renders the digest date shown next to each hit.
	DigestDateLayout = "January 2, 2006"
)

// Document is an archive item tagged with the digest it came from.
// DigestID is the database id when the archive came from the database and
// the feed file id otherwise. DigestDay is the UTC YYYY-MM-DD date.
type Document struct {
	models.FeedItem
	DigestDate string `json:"digest_date"`
	DigestDay  string `json:"digest_day"`
	DigestID   string `json:"digest_id"`
}

type Result struct {
	Document Document `json:"item"`
	Score    float64  `json:"score"`
}

type Options struct {
	Keys      []string
	Threshold float64
	Location  int
	Distance  int
}

func (o Options) withDefaults() Options {
	if len(o.Keys) == 0 {
		o.Keys = []string{KeyTitle, KeySummary, KeySourceName}
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Distance <= 0 {
		o.Distance = DefaultDistance
	}
	return o
}

type field struct {
	text []rune
	norm float64
}

type record struct {
	doc    Document
	fields []field
}

// Index is immutable once built and safe for concurrent searches.
type Index struct {
	opts    Options
	records []record
}

// NewIndex folds every configured key of every document up front.
func NewIndex(docs []Document, opts Options) *Index {
	opts = opts.withDefaults()
	fold := cases.Fold()

	records := make([]record, 0, len(docs))
	for _, doc := range docs {
		fields := make([]field, len(opts.Keys))
		for i, key := range opts.Keys {
			value := keyValue(doc, key)
			fields[i] = field{
				text: []rune(fold.String(value)),
				norm: fieldNorm(value),
			}
		}
		records = append(records, record{doc: doc, fields: fields})
	}
	return &Index{opts: opts, records: records}
}

// Len is the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Search ranks documents by how well query matches any key, best first.
// A blank query returns no results; patterns longer than MaxQueryRunes are
// cut.
func (idx *Index) Search(query string, limit int) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	pattern := []rune(cases.Fold().String(query))
	if len(pattern) > MaxQueryRunes {
		pattern = pattern[:MaxQueryRunes]
	}
	m := matcher{
		pattern:   pattern,
		threshold: idx.opts.Threshold,
		location:  idx.opts.Location,
		distance:  idx.opts.Distance,
	}

	results := []Result{}
	for _, rec := range idx.records {
		total, matched := 1.0, false
		for _, f := range rec.fields {
			sc, ok := m.score(f.text)
			if !ok {
				continue
			}
			matched = true
			if sc == 0 {
				sc = epsilon
			}
			total *= math.Pow(sc, f.norm)
		}
		if matched {
			results = append(results, Result{Document: rec.doc, Score: total})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Flatten turns nested digests into searchable documents.
func Flatten(digests []models.FeedDigest) []Document {
	var docs []Document
	for _, d := range digests {
		date := d.GeneratedAt.UTC().Format(DigestDateLayout)
		day := d.GeneratedAt.UTC().Format(models.DateLayout)
		id := d.ID
		if d.DigestID != "" {
			id = d.DigestID
		}
		for _, section := range d.Sections {
			for _, item := range section.Items {
				docs = append(docs, Document{FeedItem: item, DigestDate: date, DigestDay: day, DigestID: id})
			}
		}
	}
	return docs
}

func keyValue(doc Document, key string) string {
	switch key {
	case KeyTitle:
		return doc.Title
	case KeySummary:
		return doc.Summary
	case KeySourceName:
		return doc.SourceName
	}
	return ""
}

// fieldNorm damps matches in long fields: 1/sqrt(tokens), rounded to 3 places.
func fieldNorm(value string) float64 {
	tokens := len(strings.Fields(value))
	if tokens == 0 {
		tokens = 1
	}
	return math.Round(1/math.Sqrt(float64(tokens))*1000) / 1000
}
