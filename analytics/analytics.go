// Package analytics derives chart series from the nested digest archive.
package analytics

import (
	"sort"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/samber/lo"
	"github.com/samber/lo/mutable"
)

const dayLabelLayout = "Jan 2"

type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type DigestPoint struct {
	Date  string `json:"date"`
	Items int    `json:"items"`
}

type TopicPoint struct {
	Date   string         `json:"date"`
	Topics map[string]int `json:"topics"`
}

type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Report is everything the archive analytics page plots.
type Report struct {
	DigestsOverTime  []DigestPoint `json:"digests_over_time"`
	TopicsTimeSeries []TopicPoint  `json:"topics_time_series"`
	AllTopics        []string      `json:"all_topics"`
	Sources          []NamedCount  `json:"sources"`
	Scores           []ScoreBucket `json:"scores"`
}

var bucketOrder = []string{"0-10", "10-20", "20-30", "30-50", "50-100", "100+"}

func bucketFor(score float64) string {
	switch {
	case score >= 100:
		return "100+"
	case score >= 50:
		return "50-100"
	case score >= 30:
		return "30-50"
	case score >= 20:
		return "20-30"
	case score >= 10:
		return "10-20"
	default:
		return "0-10"
	}
}

// Build computes the report. digests are expected newest first, as the feed
// index lists them; time series come out oldest first.
func Build(digests []models.FeedDigest) Report {
	report := Report{
		DigestsOverTime:  []DigestPoint{},
		TopicsTimeSeries: []TopicPoint{},
		AllTopics:        []string{},
		Sources:          []NamedCount{},
		Scores:           []ScoreBucket{},
	}
	if len(digests) == 0 {
		return report
	}

	var (
		dates       []string
		topicsByDay = map[string]map[string]int{}
		sources     = map[string]int{}
		buckets     = map[string]int{}
		allTopics   []string
	)

	for _, d := range digests {
		date := d.GeneratedAt.UTC().Format(dayLabelLayout)
		report.DigestsOverTime = append(report.DigestsOverTime, DigestPoint{Date: date, Items: d.TotalItems})

		if _, ok := topicsByDay[date]; !ok {
			topicsByDay[date] = map[string]int{}
			dates = append(dates, date)
		}
		for _, section := range d.Sections {
			topicsByDay[date][section.Title] += len(section.Items)
			allTopics = append(allTopics, section.Title)

			for _, item := range section.Items {
				sources[string(item.SourceType)]++
				buckets[bucketFor(item.Score)]++
			}
		}
	}

	mutable.Reverse(report.DigestsOverTime)
	for i := len(dates) - 1; i >= 0; i-- {
		report.TopicsTimeSeries = append(report.TopicsTimeSeries, TopicPoint{Date: dates[i], Topics: topicsByDay[dates[i]]})
	}
	report.AllTopics = lo.Uniq(allTopics)
	report.Sources = SortedCounts(sources)
	for _, name := range bucketOrder {
		if n := buckets[name]; n > 0 {
			report.Scores = append(report.Scores, ScoreBucket{Range: name, Count: n})
		}
	}
	return report
}

// SortedCounts orders a histogram by count descending, then name.
func SortedCounts(counts map[string]int) []NamedCount {
	out := lo.Map(lo.Entries(counts), func(e lo.Entry[string, int], _ int) NamedCount {
		return NamedCount{Name: e.Key, Value: e.Value}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}
