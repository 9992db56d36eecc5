package report

import (
	"sort"

	"github.com/yeager/rpmcheck/internal/models"
)

type dedupKey struct {
	ruleID   string
	message  string
	location string
}

// Aggregate merges rule and adapter findings into a final report.
// Exact duplicates in (rule id, message, location) collapse to one, so
// re-aggregating a report's own findings is idempotent. The sort order
// is deterministic for identical input: severity rank, then category
// name, then rule id, then first-seen order.
func Aggregate(kind models.SourceKind, ruleFindings, adapterFindings []models.Finding) *models.Report {
	merged := make([]models.Finding, 0, len(ruleFindings)+len(adapterFindings))
	seen := make(map[dedupKey]bool)

	for _, f := range append(append([]models.Finding{}, ruleFindings...), adapterFindings...) {
		key := dedupKey{f.RuleID, f.Message, f.Location}
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, f)
	}

	// SliceStable preserves first-seen order for equal keys.
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		if a.Category != b.Category {
			return a.Category.String() < b.Category.String()
		}
		return a.RuleID < b.RuleID
	})

	return &models.Report{
		SourceKind: kind,
		Source:     kind.String(),
		Findings:   merged,
		Summary:    summarize(merged),
	}
}

func summarize(findings []models.Finding) models.Summary {
	s := models.Summary{
		Total:      len(findings),
		ByCategory: make(map[string]int),
	}
	for _, f := range findings {
		switch f.Severity {
		case models.SeverityError:
			s.Errors++
		case models.SeverityWarning:
			s.Warnings++
		case models.SeverityInfo:
			s.Infos++
		}
		s.ByCategory[f.Category.String()]++
	}
	return s
}
