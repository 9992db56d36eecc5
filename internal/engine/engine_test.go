package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeager/rpmcheck/internal/config"
	"github.com/yeager/rpmcheck/internal/models"
)

// stubLinter stands in for the external tool so pipeline tests do not
// depend on it being installed.
type stubLinter struct {
	findings []models.Finding
	err      error
}

func (s stubLinter) Run(context.Context, string) ([]models.Finding, error) {
	return s.findings, s.err
}

const legacySpec = `Name:           demo
Version:        1.0
Release:        1%{?dist}
Summary:        A demo package
License:        GPLv3+
Group:          Applications/Text
Source0:        https://example.com/demo-1.0.tar.gz

%description
A demo package used in pipeline tests.

%changelog
* Thu Jan 04 2024 Jane Doe <jane@example.org> - 1.0-1
- Initial package
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.spec")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestEngine(t *testing.T, cfg *config.Config, l LintRunner) *Engine {
	t.Helper()
	eng, err := New(cfg)
	require.NoError(t, err)
	return eng.WithLinter(l)
}

func TestAnalyzeLegacyLicenseAndMissingURL(t *testing.T) {
	// An otherwise clean spec with an old-format license and no URL:
	// two warnings, no errors, plus the info about the skipped
	// external check.
	eng := newTestEngine(t, nil, stubLinter{err: &models.AdapterUnavailableError{Reason: "rpmlint is not installed"}})
	path := writeSpec(t, legacySpec)

	rep, err := eng.Analyze(context.Background(), models.SourceSpec, path)
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Summary.Errors)
	assert.Equal(t, 2, rep.Summary.Warnings)
	assert.Equal(t, 1, rep.Summary.Infos)

	var ruleIDs []string
	for _, f := range rep.Findings {
		ruleIDs = append(ruleIDs, f.RuleID)
	}
	assert.Contains(t, ruleIDs, "license-spdx")
	assert.Contains(t, ruleIDs, "required-fields")
	assert.Contains(t, ruleIDs, "external-lint-skipped")
}

func TestAnalyzeUnavailableLinterBecomesInfoFinding(t *testing.T) {
	eng := newTestEngine(t, nil, stubLinter{err: &models.AdapterUnavailableError{Reason: "rpmlint is not installed"}})
	path := writeSpec(t, legacySpec)

	rep, err := eng.Analyze(context.Background(), models.SourceSpec, path)
	require.NoError(t, err, "linter absence must not fail the run")

	var skipped *models.Finding
	for i := range rep.Findings {
		if rep.Findings[i].RuleID == "external-lint-skipped" {
			skipped = &rep.Findings[i]
			break
		}
	}
	require.NotNil(t, skipped)
	assert.Equal(t, models.SeverityInfo, skipped.Severity)
	assert.Equal(t, "external check skipped: rpmlint is not installed", skipped.Message)
}

func TestAnalyzeMergesLinterFindings(t *testing.T) {
	external := models.Finding{
		RuleID:     "rpmlint:no-url-tag",
		Category:   models.CategoryExternalLint,
		Severity:   models.SeverityWarning,
		Message:    "no-url-tag",
		Suggestion: "Run 'rpmlint -e no-url-tag' for an explanation of this check.",
	}
	eng := newTestEngine(t, nil, stubLinter{findings: []models.Finding{external}})
	path := writeSpec(t, legacySpec)

	rep, err := eng.Analyze(context.Background(), models.SourceSpec, path)
	require.NoError(t, err)
	assert.Contains(t, rep.Findings, external)
}

func TestAnalyzeDeterministic(t *testing.T) {
	eng := newTestEngine(t, nil, stubLinter{})
	path := writeSpec(t, legacySpec)

	first, err := eng.Analyze(context.Background(), models.SourceSpec, path)
	require.NoError(t, err)
	second, err := eng.Analyze(context.Background(), models.SourceSpec, path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeHonorsDisabledRules(t *testing.T) {
	cfg := config.Default()
	cfg.DisabledRules = []string{"license-spdx"}
	eng := newTestEngine(t, cfg, stubLinter{})
	path := writeSpec(t, legacySpec)

	rep, err := eng.Analyze(context.Background(), models.SourceSpec, path)
	require.NoError(t, err)

	for _, f := range rep.Findings {
		assert.NotEqual(t, "license-spdx", f.RuleID)
	}
}

func TestAnalyzeHonorsLicenseOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.LicenseOverrides = map[string]string{"Corp Internal": "LicenseRef-Corp"}
	eng := newTestEngine(t, cfg, stubLinter{})
	path := writeSpec(t, "Name: demo\nLicense: Corp Internal\n")

	rep, err := eng.Analyze(context.Background(), models.SourceSpec, path)
	require.NoError(t, err)

	found := false
	for _, f := range rep.Findings {
		if f.RuleID != "license-spdx" {
			continue
		}
		found = true
		assert.Equal(t, models.SeverityWarning, f.Severity, "overridden token maps as legacy, not unrecognized")
		assert.Contains(t, f.Suggestion, "LicenseRef-Corp")
	}
	assert.True(t, found)
}

func TestAnalyzeOverridesFromConfigFile(t *testing.T) {
	// Overrides loaded from a file must keep their mixed-case keys all
	// the way into the normalizer.
	content := `
license_overrides:
  MyCorp-1.0: LicenseRef-Corp
`
	cfgPath := filepath.Join(t.TempDir(), "rpmcheck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	eng := newTestEngine(t, cfg, stubLinter{})
	path := writeSpec(t, "Name: demo\nLicense: MyCorp-1.0\n")

	rep, err := eng.Analyze(context.Background(), models.SourceSpec, path)
	require.NoError(t, err)

	found := false
	for _, f := range rep.Findings {
		if f.RuleID != "license-spdx" {
			continue
		}
		found = true
		assert.Equal(t, models.SeverityWarning, f.Severity)
		assert.Contains(t, f.Suggestion, "LicenseRef-Corp")
	}
	assert.True(t, found)
}

func TestAnalyzeExtractionFailureIsFatal(t *testing.T) {
	eng := newTestEngine(t, nil, stubLinter{})

	_, err := eng.Analyze(context.Background(), models.SourceSpec, filepath.Join(t.TempDir(), "missing.spec"))
	require.Error(t, err)
	var xerr *models.ExtractionError
	assert.ErrorAs(t, err, &xerr)
}
