package rules

import (
	"fmt"
	"strings"

	"github.com/yeager/rpmcheck/internal/models"
)

// ScriptletContentRule flags dangerous or transaction-breaking commands
// inside scriptlet bodies.
type ScriptletContentRule struct{ specOnly }

func (ScriptletContentRule) ID() string                { return "scriptlet-content" }
func (ScriptletContentRule) Category() models.Category { return models.CategoryScriptlets }

func (r ScriptletContentRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	for _, s := range facts.Spec.Scriptlets {
		for _, line := range s.Body {
			if strings.Contains(line, "rm -rf /") || strings.Contains(line, "rm -rf $RPM_BUILD_ROOT") {
				findings = append(findings, models.Finding{
					RuleID:     r.ID(),
					Category:   r.Category(),
					Severity:   models.SeverityError,
					Message:    fmt.Sprintf("Destructive rm -rf in %%%s scriptlet.", s.Kind),
					Suggestion: "Remove destructive rm commands from scriptlets.",
					Location:   lineRef(s.Line),
				})
			}
			if strings.HasPrefix(line, "exit") && line != "exit 0" {
				findings = append(findings, models.Finding{
					RuleID:     r.ID(),
					Category:   r.Category(),
					Severity:   models.SeverityWarning,
					Message:    fmt.Sprintf("'%s' in %%%s scriptlet may fail the RPM transaction.", line, s.Kind),
					Suggestion: "Use 'exit 0' or remove the exit call; scriptlet failures can block transactions.",
					Location:   lineRef(s.Line),
				})
			}
		}
	}
	return findings
}

// ScriptletDependencyRule checks that scriptlets invoking systemctl
// declare a dependency on the provider.
type ScriptletDependencyRule struct{ specOnly }

func (ScriptletDependencyRule) ID() string                { return "scriptlet-requires" }
func (ScriptletDependencyRule) Category() models.Category { return models.CategoryScriptlets }

func (r ScriptletDependencyRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	hasSystemdDep := false
	for _, dep := range facts.Spec.Requires {
		if strings.HasPrefix(dep.Name, "systemd") {
			hasSystemdDep = true
			break
		}
	}
	if hasSystemdDep {
		return nil
	}

	var findings []models.Finding
	for _, s := range facts.Spec.Scriptlets {
		for _, line := range s.Body {
			if !strings.Contains(line, "systemctl") {
				continue
			}
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("%%%s scriptlet calls systemctl without a systemd dependency.", s.Kind),
				Suggestion: fmt.Sprintf("Add 'Requires(%s): systemd' so the scriptlet's tool is present when it runs.", s.Kind),
				Location:   lineRef(s.Line),
			})
			break
		}
	}
	return findings
}
