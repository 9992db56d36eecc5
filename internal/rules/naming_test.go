package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeager/rpmcheck/internal/models"
)

func TestNameFormatUppercase(t *testing.T) {
	facts := specFacts(&models.SpecFacts{Name: defined("MyPackage_1.0", 1)})

	findings := NameFormatRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "uppercase")
	assert.Contains(t, findings[0].Suggestion, "mypackage_1.0")
}

func TestNameFormatWhitespace(t *testing.T) {
	facts := specFacts(&models.SpecFacts{Name: defined("my package", 1)})

	findings := NameFormatRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "whitespace")
}

func TestNameFormatDisallowedCharacters(t *testing.T) {
	facts := specFacts(&models.SpecFacts{Name: defined("pkg@home", 1)})

	findings := NameFormatRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "@")
}

func TestNameFormatCleanNameNoFindings(t *testing.T) {
	facts := specFacts(&models.SpecFacts{Name: defined("python3-requests", 1)})
	assert.Empty(t, NameFormatRule{}.Check(facts, nil))
}

func TestNameFormatUndefinedNameSkipped(t *testing.T) {
	facts := specFacts(&models.SpecFacts{})
	assert.Empty(t, NameFormatRule{}.Check(facts, nil))
}

func TestVersionFormatHyphen(t *testing.T) {
	facts := specFacts(&models.SpecFacts{
		Version: defined("1.0-rc1", 2),
		Release: defined("1%{?dist}", 3),
	})

	findings := VersionFormatRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "Version")
}

func TestVersionFormatClean(t *testing.T) {
	facts := specFacts(&models.SpecFacts{
		Version: defined("1.0~rc1", 2),
		Release: defined("1%{?dist}", 3),
	})
	assert.Empty(t, VersionFormatRule{}.Check(facts, nil))
}
