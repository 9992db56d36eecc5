package rules

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yeager/rpmcheck/internal/models"
)

// Rule is a named, pure evaluator over package facts. Rules are
// independent: no rule observes another rule's output. A rule id must
// never change meaning once published; ids are used for suppression
// and deduplication.
type Rule interface {
	ID() string
	Category() models.Category
	AppliesTo(kind models.SourceKind) bool
	Check(facts *models.PackageFacts, license *models.NormalizedLicense) []models.Finding
}

// Registry holds registered rules in registration order.
type Registry struct {
	rules    []Rule
	ids      map[string]bool
	disabled map[string]bool
}

// NewRegistry creates a registry with the given rule ids disabled.
func NewRegistry(disabledIDs []string) *Registry {
	disabled := make(map[string]bool, len(disabledIDs))
	for _, id := range disabledIDs {
		disabled[id] = true
	}
	return &Registry{
		ids:      make(map[string]bool),
		disabled: disabled,
	}
}

// Register adds a rule. Registering the same id twice is a programming
// error and panics at startup.
func (r *Registry) Register(rule Rule) {
	if r.ids[rule.ID()] {
		panic(fmt.Sprintf("rule %q registered twice", rule.ID()))
	}
	r.ids[rule.ID()] = true
	r.rules = append(r.rules, rule)
}

// EvaluateAll runs every registered rule applicable to the fact kind
// and concatenates results in registration order. A rule that panics is
// converted into a single info-severity finding and evaluation
// continues; one broken rule never aborts the run.
func (r *Registry) EvaluateAll(facts *models.PackageFacts, license *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	for _, rule := range r.rules {
		if r.disabled[rule.ID()] || !rule.AppliesTo(facts.Kind) {
			continue
		}
		findings = append(findings, r.evaluate(rule, facts, license)...)
	}
	return findings
}

func (r *Registry) evaluate(rule Rule, facts *models.PackageFacts, license *models.NormalizedLicense) (findings []models.Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Warnf("rule %s failed internally: %v", rule.ID(), rec)
			findings = []models.Finding{{
				RuleID:     rule.ID(),
				Category:   rule.Category(),
				Severity:   models.SeverityInfo,
				Message:    fmt.Sprintf("Rule %s failed internally and was skipped.", rule.ID()),
				Suggestion: "Report this as an engine bug; the rest of the report is unaffected.",
			}}
		}
	}()
	return rule.Check(facts, license)
}

// NewDefaultRegistry returns a registry with every built-in rule
// registered, honoring the disabled set.
func NewDefaultRegistry(disabledIDs []string) *Registry {
	r := NewRegistry(disabledIDs)
	for _, rule := range builtinRules() {
		r.Register(rule)
	}
	return r
}

func builtinRules() []Rule {
	rules := []Rule{
		&NameFormatRule{},
		&VersionFormatRule{},
		&RequiredFieldsRule{},
		&SummaryStyleRule{},
		&DistTagRule{},
		&DescriptionRule{},
		&ChangelogPresenceRule{},
		&DeprecatedTagsRule{},
		&DuplicateFieldsRule{},
		&DeprecatedMacroRule{},
		&HardcodedPathRule{},
		&ScriptletContentRule{},
		&ScriptletDependencyRule{},
		&ChangelogFormatRule{},
		&ChangelogOrderRule{},
		&ChangelogVersionRule{},
		&LicenseRule{},
		&DependencySanityRule{},
		&FileDependencyRule{},
		&FilePlacementRule{},
		&SharedLibraryPlacementRule{},
		&FileModeRule{},
		&BinaryURLRule{},
		&PayloadRule{},
		&SignatureRule{},
	}
	return rules
}

// specOnly, binaryOnly and anyKind are embeddable applicability helpers.
type specOnly struct{}

func (specOnly) AppliesTo(kind models.SourceKind) bool { return kind == models.SourceSpec }

type binaryOnly struct{}

func (binaryOnly) AppliesTo(kind models.SourceKind) bool { return kind == models.SourceBinary }

type anyKind struct{}

func (anyKind) AppliesTo(kind models.SourceKind) bool {
	return kind == models.SourceSpec || kind == models.SourceBinary
}
