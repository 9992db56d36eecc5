package models

// Severity represents how serious a finding is
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the string representation of Severity
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Category represents the policy area a finding belongs to
type Category int

const (
	CategoryNaming Category = iota
	CategoryMetadata
	CategoryMacros
	CategoryScriptlets
	CategoryChangelog
	CategoryLicensing
	CategoryDependencies
	CategoryFilePlacement
	CategoryBinaryMetadata
	CategoryExternalLint
)

// Categories lists every category in a fixed order, for exhaustive
// summary counts.
var Categories = []Category{
	CategoryNaming,
	CategoryMetadata,
	CategoryMacros,
	CategoryScriptlets,
	CategoryChangelog,
	CategoryLicensing,
	CategoryDependencies,
	CategoryFilePlacement,
	CategoryBinaryMetadata,
	CategoryExternalLint,
}

// String returns the string representation of Category
func (c Category) String() string {
	switch c {
	case CategoryNaming:
		return "naming"
	case CategoryMetadata:
		return "metadata"
	case CategoryMacros:
		return "macros"
	case CategoryScriptlets:
		return "scriptlets"
	case CategoryChangelog:
		return "changelog"
	case CategoryLicensing:
		return "licensing"
	case CategoryDependencies:
		return "dependencies"
	case CategoryFilePlacement:
		return "file-placement"
	case CategoryBinaryMetadata:
		return "binary-metadata"
	case CategoryExternalLint:
		return "external-lint"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Finding is one reportable observation about a package. Suggestion is
// always non-empty: every finding carries an actionable fix. Location is
// a line number or a file path inside the package, empty when the
// finding applies to the package as a whole.
type Finding struct {
	RuleID     string   `json:"rule_id"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
	Location   string   `json:"location,omitempty"`
}

// LicenseStatus classifies a normalized license token
type LicenseStatus int

const (
	LicenseRecognizedCurrent LicenseStatus = iota
	LicenseRecognizedLegacy
	LicenseUnrecognized
)

// String returns the string representation of LicenseStatus
func (s LicenseStatus) String() string {
	switch s {
	case LicenseRecognizedCurrent:
		return "recognized-current"
	case LicenseRecognizedLegacy:
		return "recognized-legacy-mapped"
	case LicenseUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// LicensePart is one operand of a boolean license expression.
type LicensePart struct {
	Token  string
	SPDX   string // empty when Status is LicenseUnrecognized
	Status LicenseStatus
}

// NormalizedLicense is the result of normalizing a raw license token.
// Status is the worst of the part statuses: unrecognized dominates
// legacy-mapped dominates current.
type NormalizedLicense struct {
	Raw    string
	SPDX   string // full expression rewritten in SPDX form, when known
	Parts  []LicensePart
	Status LicenseStatus
}
