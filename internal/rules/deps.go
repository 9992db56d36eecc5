package rules

import (
	"fmt"
	"strings"

	"github.com/yeager/rpmcheck/internal/models"
)

var validComparators = map[string]bool{
	"<": true, ">": true, "<=": true, ">=": true, "=": true,
}

// DependencySanityRule checks dependency expressions for
// self-dependencies, duplicates and comparator syntax errors.
type DependencySanityRule struct{ anyKind }

func (DependencySanityRule) ID() string                { return "dependency-sanity" }
func (DependencySanityRule) Category() models.Category { return models.CategoryDependencies }

func (r DependencySanityRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	name := packageName(facts)
	deps := allDependencies(facts)

	var findings []models.Finding
	seen := make(map[string]bool)
	flaggedDup := make(map[string]bool)

	for _, dep := range deps {
		if name.Defined && dep.Name == name.Value {
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("Package depends on itself (%s).", dep.Raw),
				Suggestion: "Remove the self-dependency; RPM provides the package's own name implicitly.",
				Location:   lineRef(dep.Line),
			})
		}
		if seen[dep.Raw] && !flaggedDup[dep.Raw] {
			flaggedDup[dep.Raw] = true
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("Dependency %q is declared more than once.", dep.Raw),
				Suggestion: "Remove the duplicate dependency declaration.",
				Location:   lineRef(dep.Line),
			})
		}
		seen[dep.Raw] = true

		if dep.Comparator != "" && !validComparators[dep.Comparator] {
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityError,
				Message:    fmt.Sprintf("Dependency %q uses invalid comparator %q.", dep.Raw, dep.Comparator),
				Suggestion: "Use one of <, <=, =, >= or > in versioned dependencies.",
				Location:   lineRef(dep.Line),
			})
		}
		if dep.Comparator != "" && dep.Version == "" {
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityError,
				Message:    fmt.Sprintf("Dependency %q has a comparator but no version.", dep.Raw),
				Suggestion: "Add the version the comparator refers to, or drop the comparator.",
				Location:   lineRef(dep.Line),
			})
		}
	}
	return findings
}

// File-based dependencies outside these well-known paths usually have a
// package-based equivalent.
var acceptedFileDeps = map[string]bool{
	"/bin/sh":        true,
	"/bin/bash":      true,
	"/sbin/ldconfig": true,
}

// FileDependencyRule flags file-based dependencies that should be
// package-based.
type FileDependencyRule struct{ binaryOnly }

func (FileDependencyRule) ID() string                { return "file-dependency" }
func (FileDependencyRule) Category() models.Category { return models.CategoryDependencies }

func (r FileDependencyRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	for _, dep := range facts.Binary.Requires {
		if !strings.HasPrefix(dep.Name, "/") || strings.HasPrefix(dep.Name, "/usr/") || acceptedFileDeps[dep.Name] {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityInfo,
			Message:    fmt.Sprintf("File-based dependency: %s.", dep.Name),
			Suggestion: "Prefer a package-based dependency over a file path where possible.",
		})
	}
	return findings
}
