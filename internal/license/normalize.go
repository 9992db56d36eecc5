package license

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yeager/rpmcheck/internal/models"
)

//go:embed data/licenses.yaml
var tableData []byte

type table struct {
	Version int               `yaml:"version"`
	SPDX    []string          `yaml:"spdx"`
	Legacy  map[string]string `yaml:"legacy"`
}

// Normalizer maps legacy Fedora license tokens to SPDX identifiers.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	spdx   map[string]bool
	legacy map[string]string
}

// Expressions split on boolean operator boundaries only, so multi-word
// tokens like "ASL 2.0" survive intact.
var operatorRe = regexp.MustCompile(`\s+(?:AND|OR|and|or)\s+`)

// NewNormalizer builds a Normalizer from the embedded table plus
// optional raw -> SPDX overrides.
func NewNormalizer(overrides map[string]string) (*Normalizer, error) {
	var t table
	if err := yaml.Unmarshal(tableData, &t); err != nil {
		return nil, fmt.Errorf("failed to load license table: %w", err)
	}

	n := &Normalizer{
		spdx:   make(map[string]bool, len(t.SPDX)),
		legacy: make(map[string]string, len(t.Legacy)),
	}
	for _, id := range t.SPDX {
		n.spdx[id] = true
	}
	for raw, spdx := range t.Legacy {
		n.legacy[raw] = spdx
	}
	for raw, spdx := range overrides {
		n.legacy[raw] = spdx
		n.spdx[spdx] = true
	}
	return n, nil
}

// Normalize maps a raw license token to its SPDX form. Boolean
// expressions are split on and/or boundaries, each operand normalized
// independently, and the overall status is the worst sub-status. An
// absent token yields status unrecognized with an empty raw value.
func (n *Normalizer) Normalize(raw string) models.NormalizedLicense {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.NormalizedLicense{Raw: "", Status: models.LicenseUnrecognized}
	}

	result := models.NormalizedLicense{
		Raw:    trimmed,
		Status: models.LicenseRecognizedCurrent,
	}

	tokens := operatorRe.Split(trimmed, -1)
	operators := operatorRe.FindAllString(trimmed, -1)

	var rewritten strings.Builder
	for i, token := range tokens {
		token = strings.Trim(strings.TrimSpace(token), "()")
		if token == "" {
			continue
		}
		part := n.normalizeToken(token)
		result.Parts = append(result.Parts, part)
		if part.Status > result.Status {
			result.Status = part.Status
		}
		if rewritten.Len() > 0 && i-1 < len(operators) {
			// SPDX spells operators in uppercase.
			rewritten.WriteString(" " + strings.ToUpper(strings.TrimSpace(operators[i-1])) + " ")
		}
		rewritten.WriteString(part.SPDX)
	}

	if len(result.Parts) == 0 {
		result.Status = models.LicenseUnrecognized
		return result
	}
	if result.Status != models.LicenseUnrecognized {
		result.SPDX = rewritten.String()
	}
	return result
}

func (n *Normalizer) normalizeToken(token string) models.LicensePart {
	if n.spdx[token] {
		return models.LicensePart{Token: token, SPDX: token, Status: models.LicenseRecognizedCurrent}
	}
	if spdx, ok := n.legacy[token]; ok {
		return models.LicensePart{Token: token, SPDX: spdx, Status: models.LicenseRecognizedLegacy}
	}
	return models.LicensePart{Token: token, Status: models.LicenseUnrecognized}
}

// LegacyTokens returns every legacy token in the mapping table. Used by
// tests to verify the round-trip property.
func (n *Normalizer) LegacyTokens() []string {
	tokens := make([]string, 0, len(n.legacy))
	for raw := range n.legacy {
		tokens = append(tokens, raw)
	}
	return tokens
}
