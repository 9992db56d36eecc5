package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeager/rpmcheck/internal/models"
)

func entryOn(date string, line int) models.ChangelogEntry {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.ChangelogEntry{Date: d, DateValid: true, Line: line}
}

func TestChangelogOrderFlagsOlderEntryAboveNewer(t *testing.T) {
	// Newest-first with one inversion in the middle: only the entry
	// dated 2023-06-01 sits above a newer one.
	facts := specFacts(&models.SpecFacts{
		Changelog: []models.ChangelogEntry{
			entryOn("2024-01-01", 10),
			entryOn("2023-06-01", 12),
			entryOn("2023-07-01", 14),
		},
	})

	findings := ChangelogOrderRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "2023-06-01")
	assert.Equal(t, "line 12", findings[0].Location)
}

func TestChangelogOrderSortedNoFindings(t *testing.T) {
	facts := specFacts(&models.SpecFacts{
		Changelog: []models.ChangelogEntry{
			entryOn("2024-01-01", 10),
			entryOn("2023-07-01", 12),
			entryOn("2023-06-01", 14),
		},
	})
	assert.Empty(t, ChangelogOrderRule{}.Check(facts, nil))
}

func TestChangelogOrderSkipsInvalidDates(t *testing.T) {
	facts := specFacts(&models.SpecFacts{
		Changelog: []models.ChangelogEntry{
			entryOn("2023-06-01", 10),
			{Malformed: true, Line: 12},
			entryOn("2024-01-01", 14),
		},
	})
	// Pairs with an invalid side are not comparable; only adjacent
	// valid pairs are checked.
	assert.Empty(t, ChangelogOrderRule{}.Check(facts, nil))
}

func TestChangelogFormatReportsMalformedEntries(t *testing.T) {
	facts := specFacts(&models.SpecFacts{
		Changelog: []models.ChangelogEntry{
			entryOn("2024-01-01", 10),
			{Raw: "* broken entry", Malformed: true, Line: 12},
		},
	})

	findings := ChangelogFormatRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "broken entry")
}

func TestChangelogVersionMismatch(t *testing.T) {
	top := entryOn("2024-01-01", 10)
	top.Version = "0.9-1"
	facts := specFacts(&models.SpecFacts{
		Version:   defined("1.0", 2),
		Changelog: []models.ChangelogEntry{top},
	})

	findings := ChangelogVersionRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityWarning, findings[0].Severity)
}

func TestChangelogVersionReleaseSuffixAccepted(t *testing.T) {
	top := entryOn("2024-01-01", 10)
	top.Version = "1.0-3"
	facts := specFacts(&models.SpecFacts{
		Version:   defined("1.0", 2),
		Changelog: []models.ChangelogEntry{top},
	})
	assert.Empty(t, ChangelogVersionRule{}.Check(facts, nil))
}
