// Package analytics computes roll-up statistics over a document collection.
package analytics

import (
	"math"
	"sort"

	"docmeta/internal/metadata"
	"docmeta/internal/model"
)

const (
	// TopTagsLimit caps the number of tags in a snapshot.
	TopTagsLimit = 10
	// UnknownFileType is reported for documents without an extension.
	UnknownFileType = "unknown"

	dateLayout = "2006-01-02"
)

// Compute builds a snapshot from docs. It performs no I/O and never fails.
//
// Categories keep the order in which they first appear. Tags are ranked by
// count and ties keep first-seen order. Documents without a creation time are
// left out of the timeline only.
func Compute(docs []model.Document) model.AnalyticsSnapshot {
	snap := model.AnalyticsSnapshot{
		Categories:      []model.CategoryStat{},
		TopTags:         []model.TagStat{},
		Timeline:        []model.TimelinePoint{},
		DocumentsByType: map[string]int{},
	}
	if len(docs) == 0 {
		return snap
	}

	var (
		categoryOrder []model.Category
		categoryCount = map[model.Category]int{}
		tagOrder      []string
		tagCount      = map[string]int{}
		dayCount      = map[string]int{}
	)

	for _, d := range docs {
		snap.TotalSize += d.FileSize

		cat := metadata.NormalizeCategory(string(d.Category))
		if _, seen := categoryCount[cat]; !seen {
			categoryOrder = append(categoryOrder, cat)
		}
		categoryCount[cat]++

		for _, tag := range d.Tags {
			if _, seen := tagCount[tag]; !seen {
				tagOrder = append(tagOrder, tag)
			}
			tagCount[tag]++
		}

		ft := d.FileType
		if ft == "" {
			ft = UnknownFileType
		}
		snap.DocumentsByType[ft]++

		if !d.CreatedAt.IsZero() {
			dayCount[d.CreatedAt.UTC().Format(dateLayout)]++
		}
	}

	total := len(docs)
	snap.TotalDocuments = total

	for _, cat := range categoryOrder {
		n := categoryCount[cat]
		snap.Categories = append(snap.Categories, model.CategoryStat{
			Category:   cat,
			Count:      n,
			Percentage: round2(float64(n) / float64(total) * 100),
		})
	}

	tags := make([]model.TagStat, 0, len(tagOrder))
	for _, tag := range tagOrder {
		tags = append(tags, model.TagStat{Tag: tag, Count: tagCount[tag]})
	}
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Count > tags[j].Count })
	if len(tags) > TopTagsLimit {
		tags = tags[:TopTagsLimit]
	}
	snap.TopTags = tags

	days := make([]string, 0, len(dayCount))
	for day := range dayCount {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		snap.Timeline = append(snap.Timeline, model.TimelinePoint{Date: day, Count: dayCount[day]})
	}

	return snap
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
