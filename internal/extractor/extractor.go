package extractor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"

	"github.com/yeager/rpmcheck/internal/models"
)

// RPM packages start with 0xED 0xAB 0xEE 0xDB
var rpmMagic = []byte{0xED, 0xAB, 0xEE, 0xDB}

// Extractor turns classified inputs into structured package facts.
type Extractor struct {
	// Keyring, when non-nil, is used to verify binary package
	// signatures. Signature presence is reported either way.
	Keyring openpgp.EntityList
}

// Extract produces PackageFacts for an already-classified input. It
// fails with ExtractionError only when the input is not structurally
// recognizable as its declared kind; missing optional fields never
// fail extraction.
func (e *Extractor) Extract(kind models.SourceKind, path string) (*models.PackageFacts, error) {
	switch kind {
	case models.SourceSpec:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &models.ExtractionError{Kind: kind, Path: path, Err: err}
		}
		spec, err := ExtractSpecBytes(data)
		if err != nil {
			return nil, &models.ExtractionError{Kind: kind, Path: path, Err: err}
		}
		return &models.PackageFacts{Kind: models.SourceSpec, Spec: spec}, nil

	case models.SourceBinary:
		bin, err := e.extractRPM(path)
		if err != nil {
			return nil, &models.ExtractionError{Kind: kind, Path: path, Err: err}
		}
		return &models.PackageFacts{Kind: models.SourceBinary, Binary: bin}, nil

	default:
		return nil, &models.ExtractionError{
			Kind: kind,
			Path: path,
			Err:  fmt.Errorf("unsupported input kind"),
		}
	}
}

// DetectKind classifies a file as spec text or RPM binary using the
// extension and magic bytes. Classification is the caller's
// responsibility per the engine contract; this helper exists for the
// CLI front end.
func DetectKind(path string) (models.SourceKind, error) {
	if strings.EqualFold(filepath.Ext(path), ".spec") {
		return models.SourceSpec, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return models.SourceUnknown, err
	}
	defer f.Close()

	header := make([]byte, 4)
	n, _ := f.Read(header)
	if bytes.HasPrefix(header[:n], rpmMagic) || strings.EqualFold(filepath.Ext(path), ".rpm") {
		return models.SourceBinary, nil
	}
	return models.SourceSpec, nil
}
