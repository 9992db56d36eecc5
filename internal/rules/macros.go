package rules

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yeager/rpmcheck/internal/models"
)

//go:embed data/macros.yaml
var macroTableData []byte

type macroTable struct {
	Version    int               `yaml:"version"`
	Deprecated map[string]string `yaml:"deprecated"`
}

var loadMacroTable = sync.OnceValue(func() map[string]string {
	var t macroTable
	if err := yaml.Unmarshal(macroTableData, &t); err != nil {
		// The table ships inside the binary; failing to parse it is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("invalid embedded macro table: %v", err))
	}
	return t.Deprecated
})

// DeprecatedMacroRule flags macro forms that have a current
// replacement, keyed by the embedded deprecation table.
type DeprecatedMacroRule struct{ specOnly }

func (DeprecatedMacroRule) ID() string                { return "deprecated-macro" }
func (DeprecatedMacroRule) Category() models.Category { return models.CategoryMacros }

func (r DeprecatedMacroRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	table := loadMacroTable()

	var findings []models.Finding
	for _, macro := range facts.Spec.Macros {
		replacement, ok := table[macro]
		if !ok {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Macro %%%s is deprecated.", macro),
			Suggestion: fmt.Sprintf("Use %%%s instead of %%%s.", replacement, macro),
		})
	}
	return findings
}

// hardcodedPathMacros maps path prefixes to the macro that should
// replace them, with the severity the guidelines assign.
var hardcodedPathMacros = map[string]struct {
	macro    string
	severity models.Severity
}{
	"/usr/lib/":   {"%{_libdir}", models.SeverityWarning},
	"/usr/bin/":   {"%{_bindir}", models.SeverityWarning},
	"/usr/share/": {"%{_datadir}", models.SeverityInfo},
	"/etc/":       {"%{_sysconfdir}", models.SeverityInfo},
}

// HardcodedPathRule flags path literals that have a standard macro.
type HardcodedPathRule struct{ specOnly }

func (HardcodedPathRule) ID() string                { return "hardcoded-path" }
func (HardcodedPathRule) Category() models.Category { return models.CategoryMacros }

func (r HardcodedPathRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	for _, hp := range facts.Spec.HardcodedPaths {
		entry, ok := hardcodedPathMacros[hp.Prefix]
		if !ok {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   entry.severity,
			Message:    fmt.Sprintf("Hardcoded %s instead of %s.", hp.Prefix, entry.macro),
			Suggestion: fmt.Sprintf("Use the %s macro instead of the literal path.", entry.macro),
			Location:   lineRef(hp.Line),
		})
	}
	return findings
}
