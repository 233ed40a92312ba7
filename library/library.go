// Package library builds the historical "build library" feed: one project
// pick per calendar day, never repeating an idea, and never repeating the
// picks already shown for the live day.
package library

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	// DefaultSize is how many entries the library page shows.
	DefaultSize = 30
	// DefaultScanLimit bounds how many digests are read to fill the library.
	DefaultScanLimit = 200

	signatureDescLen = 120
)

// Entry is a single day's pick in the library.
type Entry struct {
	DigestID    uuid.UUID          `json:"digest_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Date        string             `json:"date"`
	Pick        models.ProjectPick `json:"pick"`
}

// Select walks digests newest first and returns at most n entries. The first
// day that has a valid pick is treated as live: it is left out and its picks
// count as already seen.
func Select(digests []models.Digest, n int) []Entry {
	entries := []Entry{}
	if n <= 0 || len(digests) == 0 {
		return entries
	}

	ordered := make([]models.Digest, len(digests))
	copy(ordered, digests)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].GeneratedAt.After(ordered[j].GeneratedAt)
	})

	var (
		liveDay     string
		seenSigs    = map[string]struct{}{}
		coveredDays = map[string]struct{}{}
	)

	for _, d := range ordered {
		picks := validPicks(d.Picks)
		if len(picks) == 0 {
			continue
		}

		day := d.Day()
		if liveDay == "" {
			liveDay = day
		}
		if day == liveDay {
			for _, p := range picks {
				seenSigs[Signature(p)] = struct{}{}
			}
			continue
		}
		if _, ok := coveredDays[day]; ok {
			continue
		}

		for _, p := range picks {
			sig := Signature(p)
			if _, ok := seenSigs[sig]; ok {
				continue
			}
			seenSigs[sig] = struct{}{}
			coveredDays[day] = struct{}{}
			entries = append(entries, Entry{
				DigestID:    d.ID,
				GeneratedAt: d.GeneratedAt,
				Date:        day,
				Pick:        p,
			})
			break
		}

		if len(entries) >= n {
			break
		}
	}
	return entries
}

// Signature fingerprints a pick by its normalized name and the start of its
// normalized description.
func Signature(p models.ProjectPick) string {
	desc := []rune(normalize(p.Description))
	if len(desc) > signatureDescLen {
		desc = desc[:signatureDescLen]
	}
	return normalize(p.Name) + "|" + string(desc)
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validPicks(picks []models.ProjectPick) []models.ProjectPick {
	return lo.Filter(picks, func(p models.ProjectPick, _ int) bool {
		return p.Valid()
	})
}
