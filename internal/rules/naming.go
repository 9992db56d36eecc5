package rules

import (
	"fmt"
	"strings"

	"github.com/yeager/rpmcheck/internal/models"
)

// NameFormatRule enforces the package naming policy: lowercase,
// alphanumeric plus "-", "_", "+" and ".".
type NameFormatRule struct{ anyKind }

func (NameFormatRule) ID() string                { return "name-format" }
func (NameFormatRule) Category() models.Category { return models.CategoryNaming }

func (r NameFormatRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	name := packageName(facts)
	if !name.Defined || name.Value == "" {
		return nil
	}

	var findings []models.Finding
	add := func(severity models.Severity, message, suggestion string) {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   severity,
			Message:    message,
			Suggestion: suggestion,
			Location:   lineRef(name.Line),
		})
	}

	if strings.ContainsAny(name.Value, " \t") {
		add(models.SeverityError,
			fmt.Sprintf("Package name %q contains whitespace.", name.Value),
			"Remove spaces from the package name.")
	}
	if name.Value != strings.ToLower(name.Value) {
		add(models.SeverityWarning,
			fmt.Sprintf("Package name %q contains uppercase letters.", name.Value),
			fmt.Sprintf("Rename the package to %q; guidelines require lowercase names.", strings.ToLower(name.Value)))
	}
	if bad := invalidNameChars(name.Value); bad != "" {
		add(models.SeverityError,
			fmt.Sprintf("Package name %q contains disallowed characters: %s.", name.Value, bad),
			"Use only lowercase letters, digits, '-', '_', '+' and '.' in package names.")
	}
	return findings
}

// invalidNameChars lists characters outside the allowed name alphabet.
// Case and whitespace problems are reported separately.
func invalidNameChars(name string) string {
	var bad []rune
	seen := make(map[rune]bool)
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '+' || r == '.':
		case r == ' ' || r == '\t':
		default:
			if !seen[r] {
				seen[r] = true
				bad = append(bad, r)
			}
		}
	}
	return string(bad)
}

// VersionFormatRule rejects hyphens in version and release, which RPM
// reserves as the version-release separator.
type VersionFormatRule struct{ anyKind }

func (VersionFormatRule) ID() string                { return "version-format" }
func (VersionFormatRule) Category() models.Category { return models.CategoryNaming }

func (r VersionFormatRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	version, release := versionFields(facts)

	var findings []models.Finding
	for _, f := range []struct {
		field models.Field
		name  string
	}{{version, "Version"}, {release, "Release"}} {
		if f.field.Defined && strings.Contains(f.field.Value, "-") {
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityError,
				Message:    fmt.Sprintf("%s %q contains a hyphen.", f.name, f.field.Value),
				Suggestion: fmt.Sprintf("Replace the hyphen in %s; RPM reserves '-' as the version-release separator.", f.name),
				Location:   lineRef(f.field.Line),
			})
		}
	}
	return findings
}
