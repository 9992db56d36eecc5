package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeager/rpmcheck/internal/models"
)

func finding(ruleID string, severity models.Severity, category models.Category, message string) models.Finding {
	return models.Finding{
		RuleID:     ruleID,
		Category:   category,
		Severity:   severity,
		Message:    message,
		Suggestion: "fix it",
	}
}

func TestAggregateDeduplicates(t *testing.T) {
	f := finding("name-format", models.SeverityWarning, models.CategoryNaming, "uppercase name")

	rep := Aggregate(models.SourceSpec,
		[]models.Finding{f, f},
		[]models.Finding{f},
	)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, 1, rep.Summary.Total)
}

func TestAggregateDistinctLocationsKept(t *testing.T) {
	a := finding("file-mode", models.SeverityError, models.CategoryFilePlacement, "world-writable")
	a.Location = "/usr/share/a"
	b := a
	b.Location = "/usr/share/b"

	rep := Aggregate(models.SourceBinary, []models.Finding{a, b}, nil)
	assert.Len(t, rep.Findings, 2)
}

func TestAggregateSeverityOrder(t *testing.T) {
	rep := Aggregate(models.SourceSpec,
		[]models.Finding{
			finding("c", models.SeverityInfo, models.CategoryMetadata, "info"),
			finding("b", models.SeverityWarning, models.CategoryNaming, "warn"),
			finding("a", models.SeverityError, models.CategoryLicensing, "err"),
		},
		nil,
	)

	require.Len(t, rep.Findings, 3)
	assert.Equal(t, models.SeverityError, rep.Findings[0].Severity)
	assert.Equal(t, models.SeverityWarning, rep.Findings[1].Severity)
	assert.Equal(t, models.SeverityInfo, rep.Findings[2].Severity)
}

func TestAggregateTiesBreakByCategoryThenRuleID(t *testing.T) {
	rep := Aggregate(models.SourceSpec,
		[]models.Finding{
			finding("summary-style", models.SeverityWarning, models.CategoryMetadata, "x"),
			finding("dist-tag", models.SeverityWarning, models.CategoryMetadata, "y"),
			finding("changelog-order", models.SeverityWarning, models.CategoryChangelog, "z"),
		},
		nil,
	)

	require.Len(t, rep.Findings, 3)
	assert.Equal(t, "changelog-order", rep.Findings[0].RuleID)
	assert.Equal(t, "dist-tag", rep.Findings[1].RuleID)
	assert.Equal(t, "summary-style", rep.Findings[2].RuleID)
}

func TestAggregateFirstSeenOrderStable(t *testing.T) {
	a := finding("file-mode", models.SeverityError, models.CategoryFilePlacement, "first")
	b := finding("file-mode", models.SeverityError, models.CategoryFilePlacement, "second")

	rep := Aggregate(models.SourceBinary, []models.Finding{a, b}, nil)
	require.Len(t, rep.Findings, 2)
	assert.Equal(t, "first", rep.Findings[0].Message)
	assert.Equal(t, "second", rep.Findings[1].Message)
}

func TestAggregateIdempotent(t *testing.T) {
	ruleFindings := []models.Finding{
		finding("a", models.SeverityError, models.CategoryLicensing, "err"),
		finding("b", models.SeverityWarning, models.CategoryNaming, "warn"),
	}
	adapterFindings := []models.Finding{
		finding("rpmlint:no-url-tag", models.SeverityWarning, models.CategoryExternalLint, "no url"),
	}

	once := Aggregate(models.SourceSpec, ruleFindings, adapterFindings)
	again := Aggregate(models.SourceSpec, once.Findings, nil)
	assert.Equal(t, once, again)
}

func TestAggregateSummaryCounts(t *testing.T) {
	rep := Aggregate(models.SourceSpec,
		[]models.Finding{
			finding("a", models.SeverityError, models.CategoryLicensing, "err"),
			finding("b", models.SeverityWarning, models.CategoryNaming, "warn1"),
			finding("c", models.SeverityWarning, models.CategoryNaming, "warn2"),
			finding("d", models.SeverityInfo, models.CategoryMetadata, "info"),
		},
		nil,
	)

	assert.Equal(t, 4, rep.Summary.Total)
	assert.Equal(t, 1, rep.Summary.Errors)
	assert.Equal(t, 2, rep.Summary.Warnings)
	assert.Equal(t, 1, rep.Summary.Infos)
	assert.Equal(t, 2, rep.Summary.ByCategory["naming"])
	assert.Equal(t, 1, rep.Summary.ByCategory["licensing"])
}

func TestAggregateEmpty(t *testing.T) {
	rep := Aggregate(models.SourceSpec, nil, nil)
	assert.Empty(t, rep.Findings)
	assert.Equal(t, 0, rep.Summary.Total)
	assert.Equal(t, "spec", rep.Source)
}
