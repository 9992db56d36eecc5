package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeager/rpmcheck/internal/models"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDetectKindSpecExtension(t *testing.T) {
	// The .spec extension classifies without touching the file.
	kind, err := DetectKind("/nonexistent/demo.spec")
	require.NoError(t, err)
	assert.Equal(t, models.SourceSpec, kind)
}

func TestDetectKindRPMMagic(t *testing.T) {
	path := writeFile(t, "demo.bin", []byte{0xED, 0xAB, 0xEE, 0xDB, 0x03, 0x00})
	kind, err := DetectKind(path)
	require.NoError(t, err)
	assert.Equal(t, models.SourceBinary, kind)
}

func TestDetectKindRPMExtension(t *testing.T) {
	path := writeFile(t, "demo.rpm", []byte("not really an rpm"))
	kind, err := DetectKind(path)
	require.NoError(t, err)
	assert.Equal(t, models.SourceBinary, kind)
}

func TestDetectKindFallsBackToSpec(t *testing.T) {
	path := writeFile(t, "demo.txt", []byte("Name: demo\n"))
	kind, err := DetectKind(path)
	require.NoError(t, err)
	assert.Equal(t, models.SourceSpec, kind)
}

func TestDetectKindMissingFile(t *testing.T) {
	_, err := DetectKind(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}

func TestExtractBinaryKindOnNonRPMFails(t *testing.T) {
	e := &Extractor{}
	path := writeFile(t, "demo.rpm", []byte("not really an rpm"))

	_, err := e.Extract(models.SourceBinary, path)
	require.Error(t, err)
	var xerr *models.ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, models.SourceBinary, xerr.Kind)
}

func TestExtractUnknownKindFails(t *testing.T) {
	e := &Extractor{}
	_, err := e.Extract(models.SourceUnknown, "whatever")
	require.Error(t, err)
}
