package rules

import (
	"fmt"
	"strings"

	"github.com/yeager/rpmcheck/internal/models"
)

// BinaryURLRule checks that the built package carries a URL.
type BinaryURLRule struct{ binaryOnly }

func (BinaryURLRule) ID() string                { return "binary-url" }
func (BinaryURLRule) Category() models.Category { return models.CategoryBinaryMetadata }

func (r BinaryURLRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	url := facts.Binary.URL
	if url.Defined && strings.TrimSpace(url.Value) != "" {
		return nil
	}
	return []models.Finding{{
		RuleID:     r.ID(),
		Category:   r.Category(),
		Severity:   models.SeverityWarning,
		Message:    "Package header has no URL set.",
		Suggestion: "Add a URL tag to the spec file and rebuild.",
	}}
}

// PayloadRule validates the payload compressor declaration against the
// actual payload bytes.
type PayloadRule struct{ binaryOnly }

func (PayloadRule) ID() string                { return "payload-compressor" }
func (PayloadRule) Category() models.Category { return models.CategoryBinaryMetadata }

func (r PayloadRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	p := facts.Binary.Payload

	if p.Detected == "" {
		return []models.Finding{{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Payload compression could not be identified (header declares %q).", p.Declared),
			Suggestion: "Rebuild the package with a standard payload compressor (gzip, xz or zstd).",
		}}
	}

	var findings []models.Finding
	if p.Detected != p.Declared {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityError,
			Message:    fmt.Sprintf("Header declares %s payload compression but the payload is %s.", p.Declared, p.Detected),
			Suggestion: "Rebuild the package; the payload does not match its header declaration.",
		})
	}
	if !p.Readable {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityError,
			Message:    fmt.Sprintf("Package payload (%s) does not decompress cleanly.", p.Detected),
			Suggestion: "The payload is truncated or corrupt; rebuild or re-download the package.",
		})
	}
	return findings
}

// SignatureRule reports on the package signature. Without a configured
// keyring only presence is checked.
type SignatureRule struct{ binaryOnly }

func (SignatureRule) ID() string                { return "package-signature" }
func (SignatureRule) Category() models.Category { return models.CategoryBinaryMetadata }

func (r SignatureRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	sig := facts.Binary.Signature

	if !sig.Present {
		return []models.Finding{{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityInfo,
			Message:    "Package is not GPG-signed.",
			Suggestion: "Sign the package with the project key before publishing.",
		}}
	}
	if sig.KeyringUsed && !sig.Verified {
		msg := "Package signature does not verify against the configured keyring."
		if sig.KeyID != "" {
			msg = fmt.Sprintf("Package signature (key %s) does not verify against the configured keyring.", sig.KeyID)
		}
		return []models.Finding{{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityWarning,
			Message:    msg,
			Suggestion: "Import the signing key into the keyring, or re-sign the package with a trusted key.",
		}}
	}
	return nil
}
