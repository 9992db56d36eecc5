package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeager/rpmcheck/internal/models"
)

func TestFilePlacementRootLevelFile(t *testing.T) {
	facts := binaryFacts(&models.BinaryFacts{
		Files: []models.FileEntry{
			{Path: "/evil", Mode: 0o644},
			{Path: "/usr/bin/ok", Mode: 0o755},
		},
	})

	findings := FilePlacementRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, models.SeverityError, findings[0].Severity)
	assert.Equal(t, "/evil", findings[0].Location)
}

func TestFilePlacementDisallowedPrefixes(t *testing.T) {
	facts := binaryFacts(&models.BinaryFacts{
		Files: []models.FileEntry{
			{Path: "/usr/local/bin/tool", Mode: 0o755},
			{Path: "/tmp/scratch", Mode: 0o644},
			{Path: "/var/lib/app/state", Mode: 0o644},
		},
	})

	findings := FilePlacementRule{}.Check(facts, nil)
	require.Len(t, findings, 2)
	assert.Contains(t, findings[0].Message, "/usr/local/")
	assert.Contains(t, findings[1].Message, "/tmp/")
}

func TestFilePlacementBuildIDExempt(t *testing.T) {
	facts := binaryFacts(&models.BinaryFacts{
		Files: []models.FileEntry{
			{Path: "/usr/lib/.build-id/ab/cdef", Mode: 0o644},
		},
	})
	assert.Empty(t, FilePlacementRule{}.Check(facts, nil))
}

func TestSharedLibraryPlacement(t *testing.T) {
	facts := binaryFacts(&models.BinaryFacts{
		Files: []models.FileEntry{
			{Path: "/usr/lib64/libfoo.so.1.2", Mode: 0o755},
			{Path: "/opt/app/libbar.so", Mode: 0o755},
			{Path: "/usr/bin/tool", Mode: 0o755},
		},
	})

	findings := SharedLibraryPlacementRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, "/opt/app/libbar.so", findings[0].Location)
	assert.Equal(t, models.SeverityWarning, findings[0].Severity)
}

func TestFileModeWorldWritable(t *testing.T) {
	facts := binaryFacts(&models.BinaryFacts{
		Files: []models.FileEntry{
			{Path: "/usr/share/app/data", Mode: 0o666},
			{Path: "/usr/bin/tool", Mode: 0o755},
			// Symlinks are always 0777 on disk and are exempt.
			{Path: "/usr/lib64/libfoo.so", Mode: 0o120777},
		},
	})

	findings := FileModeRule{}.Check(facts, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, "/usr/share/app/data", findings[0].Location)
	assert.Contains(t, findings[0].Message, "0666")
}
