package models

// Summary holds per-severity and per-category finding counts.
type Summary struct {
	Total      int            `json:"total"`
	Errors     int            `json:"errors"`
	Warnings   int            `json:"warnings"`
	Infos      int            `json:"infos"`
	ByCategory map[string]int `json:"by_category"`
}

// Report is the final, immutable result of one analysis run. Findings
// are deduplicated and sorted deterministically: severity rank, then
// category name, then rule id, then first-seen order.
type Report struct {
	SourceKind SourceKind `json:"-"`
	Source     string     `json:"source_kind"`
	Findings   []Finding  `json:"findings"`
	Summary    Summary    `json:"summary"`
}
