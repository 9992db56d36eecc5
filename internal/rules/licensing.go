package rules

import (
	"fmt"

	"github.com/yeager/rpmcheck/internal/models"
)

// LicenseRule evaluates the normalized license expression. A missing
// license is an error; legacy Fedora short names get an SPDX
// suggestion; unrecognized tokens are errors.
type LicenseRule struct{ anyKind }

func (LicenseRule) ID() string                { return "license-spdx" }
func (LicenseRule) Category() models.Category { return models.CategoryLicensing }

func (r LicenseRule) Check(facts *models.PackageFacts, license *models.NormalizedLicense) []models.Finding {
	if license == nil {
		return nil
	}

	if license.Raw == "" {
		message := "License field is missing."
		suggestion := "Add a License tag with an SPDX identifier."
		if licenseDefined(facts) {
			// Present but empty is a distinct defect from missing.
			message = "License field is present but empty."
			suggestion = "Fill in the License tag with an SPDX identifier."
		}
		return []models.Finding{{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityError,
			Message:    message,
			Suggestion: suggestion,
			Location:   licenseLocation(facts),
		}}
	}

	var findings []models.Finding
	for _, part := range license.Parts {
		switch part.Status {
		case models.LicenseRecognizedLegacy:
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("License %q uses the old Fedora format, not SPDX.", part.Token),
				Suggestion: fmt.Sprintf("Replace %q with the SPDX identifier %q.", part.Token, part.SPDX),
				Location:   licenseLocation(facts),
			})
		case models.LicenseUnrecognized:
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityError,
				Message:    fmt.Sprintf("License identifier %q is not recognized.", part.Token),
				Suggestion: "Check https://spdx.org/licenses/ for valid SPDX identifiers.",
				Location:   licenseLocation(facts),
			})
		}
	}
	return findings
}

func licenseDefined(facts *models.PackageFacts) bool {
	switch facts.Kind {
	case models.SourceSpec:
		return facts.Spec.License.Defined
	case models.SourceBinary:
		return facts.Binary.License.Defined
	}
	return false
}

func licenseLocation(facts *models.PackageFacts) string {
	if facts.Kind == models.SourceSpec {
		return lineRef(facts.Spec.License.Line)
	}
	return ""
}
