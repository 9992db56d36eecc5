package rules

import (
	"fmt"
	"strings"

	"github.com/yeager/rpmcheck/internal/models"
)

// ChangelogFormatRule reports entries that do not follow the standard
// "* Day Mon DD YYYY Name <email> - version" header.
type ChangelogFormatRule struct{ specOnly }

func (ChangelogFormatRule) ID() string                { return "changelog-format" }
func (ChangelogFormatRule) Category() models.Category { return models.CategoryChangelog }

func (r ChangelogFormatRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	for _, entry := range facts.Spec.Changelog {
		if !entry.Malformed {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Changelog entry %q does not follow the standard format.", entry.Raw),
			Suggestion: "Use the format: * Day Mon DD YYYY Name <email> - version-release",
			Location:   lineRef(entry.Line),
		})
	}
	return findings
}

// ChangelogOrderRule checks that entries are newest-first: each entry's
// date must be on or after the date of the entry below it.
type ChangelogOrderRule struct{ specOnly }

func (ChangelogOrderRule) ID() string                { return "changelog-order" }
func (ChangelogOrderRule) Category() models.Category { return models.CategoryChangelog }

func (r ChangelogOrderRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	entries := facts.Spec.Changelog

	var findings []models.Finding
	for i := 0; i+1 < len(entries); i++ {
		cur, next := entries[i], entries[i+1]
		if !cur.DateValid || !next.DateValid {
			continue
		}
		if cur.Date.Before(next.Date) {
			findings = append(findings, models.Finding{
				RuleID:   r.ID(),
				Category: r.Category(),
				Severity: models.SeverityWarning,
				Message: fmt.Sprintf("Changelog entry dated %s appears above a newer entry dated %s.",
					cur.Date.Format("2006-01-02"), next.Date.Format("2006-01-02")),
				Suggestion: "Order changelog entries newest-first.",
				Location:   lineRef(cur.Line),
			})
		}
	}
	return findings
}

// ChangelogVersionRule checks the topmost entry's version against the
// declared package version.
type ChangelogVersionRule struct{ specOnly }

func (ChangelogVersionRule) ID() string                { return "changelog-version" }
func (ChangelogVersionRule) Category() models.Category { return models.CategoryChangelog }

func (r ChangelogVersionRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	entries := facts.Spec.Changelog
	version := facts.Spec.Version
	if len(entries) == 0 || !version.Defined || version.Value == "" {
		return nil
	}

	top := entries[0]
	if top.Malformed || top.Version == "" {
		return nil
	}
	// Entry versions usually carry the release suffix, e.g. "1.2-3".
	if top.Version == version.Value || strings.HasPrefix(top.Version, version.Value+"-") {
		return nil
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Category: r.Category(),
		Severity: models.SeverityWarning,
		Message: fmt.Sprintf("Topmost changelog entry is for version %s but the package declares %s.",
			top.Version, version.Value),
		Suggestion: "Add a changelog entry for the current version.",
		Location:   lineRef(top.Line),
	}}
}
