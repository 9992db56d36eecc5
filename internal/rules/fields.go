package rules

import (
	"fmt"
	"strings"

	"github.com/yeager/rpmcheck/internal/models"
)

// RequiredFieldsRule checks the spec header for required and
// recommended fields. License absence is owned by the licensing rule.
type RequiredFieldsRule struct{ specOnly }

func (RequiredFieldsRule) ID() string                { return "required-fields" }
func (RequiredFieldsRule) Category() models.Category { return models.CategoryMetadata }

func (r RequiredFieldsRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	spec := facts.Spec

	var findings []models.Finding
	add := func(severity models.Severity, message, suggestion string) {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   severity,
			Message:    message,
			Suggestion: suggestion,
		})
	}
	check := func(f models.Field, name string, severity models.Severity, hint string) {
		if !f.Defined {
			add(severity, fmt.Sprintf("Required field %s is missing.", name), hint)
		} else if strings.TrimSpace(f.Value) == "" {
			// Present but empty is a distinct defect from missing.
			add(severity, fmt.Sprintf("Field %s is present but empty.", name), hint)
		}
	}

	check(spec.Name, "Name", models.SeverityError, "Add a Name tag to the spec header.")
	check(spec.Version, "Version", models.SeverityError, "Add a Version tag to the spec header.")
	check(spec.Release, "Release", models.SeverityError, "Add a Release tag to the spec header.")
	check(spec.Summary, "Summary", models.SeverityError, "Add a one-line Summary tag to the spec header.")

	if !spec.URL.Defined {
		add(models.SeverityWarning, "URL field is missing.", "Add a URL tag pointing to the project homepage.")
	}
	if !spec.Group.Defined {
		add(models.SeverityInfo, "Group field is missing.", "Group is legacy; add it only if your target distribution still requires it.")
	}
	if len(spec.Sources) == 0 {
		add(models.SeverityWarning, "No Source tag found.", "Add a Source0 tag with the upstream tarball URL.")
	}
	return findings
}

// SummaryStyleRule enforces summary formatting conventions.
type SummaryStyleRule struct{ specOnly }

func (SummaryStyleRule) ID() string                { return "summary-style" }
func (SummaryStyleRule) Category() models.Category { return models.CategoryMetadata }

func (r SummaryStyleRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	summary := facts.Spec.Summary
	if !summary.Defined {
		return nil
	}

	var findings []models.Finding
	if strings.HasSuffix(summary.Value, ".") {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityWarning,
			Message:    "Summary ends with a period.",
			Suggestion: "Remove the trailing period from the Summary.",
			Location:   lineRef(summary.Line),
		})
	}
	if len(summary.Value) > 80 {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Summary is %d characters long.", len(summary.Value)),
			Suggestion: "Keep the Summary under 80 characters.",
			Location:   lineRef(summary.Line),
		})
	}
	return findings
}

// DistTagRule checks that Release carries the %{?dist} tag.
type DistTagRule struct{ specOnly }

func (DistTagRule) ID() string                { return "dist-tag" }
func (DistTagRule) Category() models.Category { return models.CategoryMetadata }

func (r DistTagRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	release := facts.Spec.Release
	if !release.Defined || strings.Contains(release.Value, "%{?dist}") {
		return nil
	}
	return []models.Finding{{
		RuleID:     r.ID(),
		Category:   r.Category(),
		Severity:   models.SeverityWarning,
		Message:    "Release field does not contain %{?dist}.",
		Suggestion: "Append %{?dist} to the Release tag for proper distribution tagging.",
		Location:   lineRef(release.Line),
	}}
}

// DescriptionRule requires a %description section.
type DescriptionRule struct{ specOnly }

func (DescriptionRule) ID() string                { return "description-present" }
func (DescriptionRule) Category() models.Category { return models.CategoryMetadata }

func (r DescriptionRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	if facts.Spec.HasDescription {
		return nil
	}
	return []models.Finding{{
		RuleID:     r.ID(),
		Category:   r.Category(),
		Severity:   models.SeverityError,
		Message:    "%description section is missing.",
		Suggestion: "Add a %description section with a detailed package description.",
	}}
}

// ChangelogPresenceRule requires a %changelog section.
type ChangelogPresenceRule struct{ specOnly }

func (ChangelogPresenceRule) ID() string                { return "changelog-present" }
func (ChangelogPresenceRule) Category() models.Category { return models.CategoryChangelog }

func (r ChangelogPresenceRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	if facts.Spec.HasChangelog {
		return nil
	}
	return []models.Finding{{
		RuleID:     r.ID(),
		Category:   r.Category(),
		Severity:   models.SeverityWarning,
		Message:    "%changelog section is missing.",
		Suggestion: "Add a %changelog section with dated entries.",
	}}
}

// DeprecatedTagsRule flags constructs modern RPM no longer needs.
type DeprecatedTagsRule struct{ specOnly }

func (DeprecatedTagsRule) ID() string                { return "deprecated-tags" }
func (DeprecatedTagsRule) Category() models.Category { return models.CategoryMetadata }

func (r DeprecatedTagsRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	if facts.Spec.HasBuildRoot {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityInfo,
			Message:    "BuildRoot tag is deprecated in modern RPM.",
			Suggestion: "Remove the BuildRoot tag; RPM sets it automatically.",
		})
	}
	if facts.Spec.HasClean {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityInfo,
			Message:    "%clean section is deprecated in modern RPM.",
			Suggestion: "Remove the %clean section; rpmbuild handles cleanup automatically.",
		})
	}
	return findings
}

// DuplicateFieldsRule reports repeated header fields. Only the first
// occurrence of a field is authoritative.
type DuplicateFieldsRule struct{ specOnly }

func (DuplicateFieldsRule) ID() string                { return "duplicate-fields" }
func (DuplicateFieldsRule) Category() models.Category { return models.CategoryMetadata }

func (r DuplicateFieldsRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	for _, dup := range facts.Spec.DuplicateFields {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityInfo,
			Message:    fmt.Sprintf("Field %s is declared more than once; only the first occurrence is used.", dup.Key),
			Suggestion: fmt.Sprintf("Remove the duplicate %s declaration.", dup.Key),
			Location:   lineRef(dup.Line),
		})
	}
	return findings
}
