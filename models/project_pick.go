package models

import (
	"encoding/json"
	"strings"
)

// MaxProjectPicks caps how many recommendations a digest can surface.
const MaxProjectPicks = 3

const (
	CategoryTool        = "tool"
	CategoryFramework   = "framework"
	CategoryModel       = "model"
	CategoryLibrary     = "library"
	CategorySaaS        = "saas"
	CategoryCommunity   = "community"
	CategoryMarketplace = "marketplace"
)

// ProjectPick is a suggested "thing to build" attached to a digest.
type ProjectPick struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Why         string `json:"why"`
	URL         string `json:"url"`
	Category    string `json:"category"`
}

// Valid reports whether the pick carries both a name and a description.
func (p ProjectPick) Valid() bool {
	return strings.TrimSpace(p.Name) != "" && strings.TrimSpace(p.Description) != ""
}

// ParseProjectPicks decodes a stored recommendation blob. Anything that is not
// a JSON array yields an empty list; arrays are cut to the first
// MaxProjectPicks elements and elements that are not objects are dropped.
func ParseProjectPicks(raw string) []ProjectPick {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return []ProjectPick{}
	}
	if len(elems) > MaxProjectPicks {
		elems = elems[:MaxProjectPicks]
	}

	picks := make([]ProjectPick, 0, len(elems))
	for _, elem := range elems {
		var p ProjectPick
		if err := json.Unmarshal(elem, &p); err != nil {
			continue
		}
		picks = append(picks, p)
	}
	return picks
}
