package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeager/rpmcheck/internal/config"
	"github.com/yeager/rpmcheck/internal/extractor"
	"github.com/yeager/rpmcheck/internal/license"
	"github.com/yeager/rpmcheck/internal/linter"
	"github.com/yeager/rpmcheck/internal/models"
	"github.com/yeager/rpmcheck/internal/report"
	"github.com/yeager/rpmcheck/internal/rules"
	"github.com/yeager/rpmcheck/internal/signature"
)

// LintRunner is the narrow boundary to the external linter, kept as an
// interface so the core pipeline is testable without the tool
// installed.
type LintRunner interface {
	Run(ctx context.Context, path string) ([]models.Finding, error)
}

// Engine runs the full policy evaluation pipeline. It holds no mutable
// state after construction and is safe to use from concurrent runs.
type Engine struct {
	extractor  *extractor.Extractor
	normalizer *license.Normalizer
	registry   *rules.Registry
	linter     LintRunner
}

// New builds an engine from configuration.
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	normalizer, err := license.NewNormalizer(cfg.LicenseOverrides)
	if err != nil {
		return nil, err
	}

	ext := &extractor.Extractor{}
	if cfg.KeyringPath != "" {
		keyring, err := signature.LoadKeyring(cfg.KeyringPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keyring: %w", err)
		}
		ext.Keyring = keyring
	}

	return &Engine{
		extractor:  ext,
		normalizer: normalizer,
		registry:   rules.NewDefaultRegistry(cfg.DisabledRules),
		linter:     linter.New(cfg.RPMLintPath, time.Duration(cfg.RPMLintTimeoutSeconds)*time.Second),
	}, nil
}

// WithLinter replaces the external linter boundary. Tests use it to
// run the pipeline without the tool installed.
func (e *Engine) WithLinter(l LintRunner) *Engine {
	e.linter = l
	return e
}

// Analyze runs one analysis: extract facts, normalize the license,
// evaluate every rule, collect external linter findings and aggregate.
// It fails only when the input cannot be extracted at all; every other
// condition is data in the report.
func (e *Engine) Analyze(ctx context.Context, kind models.SourceKind, path string) (*models.Report, error) {
	facts, err := e.extractor.Extract(kind, path)
	if err != nil {
		return nil, err
	}

	norm := e.normalizer.Normalize(licenseToken(facts))
	ruleFindings := e.registry.EvaluateAll(facts, &norm)

	var adapterFindings []models.Finding
	if e.linter != nil {
		adapterFindings, err = e.linter.Run(ctx, path)
		if err != nil {
			logrus.Debugf("external linter: %v", err)
			adapterFindings = []models.Finding{skippedFinding(err)}
		}
	}

	return report.Aggregate(kind, ruleFindings, adapterFindings), nil
}

// licenseToken returns the raw license token, empty when absent.
func licenseToken(facts *models.PackageFacts) string {
	switch facts.Kind {
	case models.SourceSpec:
		return facts.Spec.License.Value
	case models.SourceBinary:
		return facts.Binary.License.Value
	}
	return ""
}

// skippedFinding converts adapter unavailability into the single info
// finding the report carries instead.
func skippedFinding(err error) models.Finding {
	reason := err.Error()
	if ue, ok := err.(*models.AdapterUnavailableError); ok {
		reason = ue.Reason
	}
	return models.Finding{
		RuleID:     "external-lint-skipped",
		Category:   models.CategoryExternalLint,
		Severity:   models.SeverityInfo,
		Message:    fmt.Sprintf("external check skipped: %s", reason),
		Suggestion: "Install rpmlint to include its diagnostics in the report.",
	}
}
