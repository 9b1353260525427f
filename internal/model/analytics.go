package model

// CategoryStat is the share of documents in one category.
type CategoryStat struct {
	Category   Category `json:"category"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
}

// TagStat is the number of documents carrying a tag.
type TagStat struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TimelinePoint counts documents created on one UTC calendar date (YYYY-MM-DD).
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsSnapshot is a statistical summary of the whole document collection,
// computed on request and never stored.
type AnalyticsSnapshot struct {
	TotalDocuments  int             `json:"total_documents"`
	TotalSize       int64           `json:"total_size"`
	Categories      []CategoryStat  `json:"categories"`
	TopTags         []TagStat       `json:"top_tags"`
	Timeline        []TimelinePoint `json:"timeline"`
	DocumentsByType map[string]int  `json:"documents_by_type"`
}
