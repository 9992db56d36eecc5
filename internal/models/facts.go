package models

import "time"

// SourceKind represents the kind of analyzed input
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceSpec
	SourceBinary
)

// String returns the string representation of SourceKind
func (k SourceKind) String() string {
	switch k {
	case SourceSpec:
		return "spec"
	case SourceBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Field is a header field value that distinguishes "missing" from "empty".
// Line is the 1-based line number of the authoritative occurrence (spec
// input only; 0 for binary headers).
type Field struct {
	Value   string
	Defined bool
	Line    int
}

// DuplicateField records a later, non-authoritative occurrence of a
// header field. First occurrence wins; duplicates are reportable facts.
type DuplicateField struct {
	Key  string
	Line int
}

// Scriptlet is an install-time script section found in a spec file.
// Kind is the base section name (pre, post, preun, postun, pretrans,
// posttrans); qualifiers such as subpackage names are not part of Kind.
type Scriptlet struct {
	Kind string
	Line int
	Body []string
}

// ChangelogEntry is one dated entry of the %changelog section.
// Entries that do not match the expected header format are kept with
// Malformed set rather than dropped.
type ChangelogEntry struct {
	Raw       string
	Date      time.Time
	DateValid bool
	Author    string
	Version   string
	Body      []string
	Malformed bool
	Line      int
}

// Dependency is a single dependency expression such as "foo >= 1.2".
type Dependency struct {
	Raw        string
	Name       string
	Comparator string
	Version    string
	Line       int
}

// HardcodedPath records a path literal that should have been a macro.
type HardcodedPath struct {
	Prefix string
	Line   int
}

// SpecFacts holds the structured facts extracted from a spec file.
type SpecFacts struct {
	Name    Field
	Version Field
	Release Field
	Summary Field
	License Field
	Group   Field
	URL     Field

	Sources         []string
	DuplicateFields []DuplicateField

	Macros     []string // first-seen order
	Scriptlets []Scriptlet
	Changelog  []ChangelogEntry

	BuildRequires []Dependency
	Requires      []Dependency

	HardcodedPaths []HardcodedPath

	HasDescription bool
	HasChangelog   bool
	HasBuildRoot   bool
	HasClean       bool
}

// FileEntry is one file from a binary package manifest.
type FileEntry struct {
	Path  string
	Mode  int
	Owner string
	Group string
	Size  int64
}

// PayloadFacts describes the package payload compression.
type PayloadFacts struct {
	Declared string // compressor named in the header, e.g. "zstd"
	Detected string // compressor detected from payload magic bytes
	Readable bool   // payload stream opened and decompressed cleanly
}

// SignatureFacts describes the package signature header.
type SignatureFacts struct {
	Present     bool
	KeyID       string
	Signer      string
	KeyringUsed bool // a keyring was configured and consulted
	Verified    bool // true only when a configured keyring matched
}

// BinaryFacts holds the structured facts extracted from an RPM binary.
type BinaryFacts struct {
	Name    Field
	Version Field
	Release Field
	Arch    Field
	Summary Field
	License Field
	Group   Field
	URL     Field

	Requires   []Dependency
	Files      []FileEntry
	Scriptlets []string

	Payload   PayloadFacts
	Signature SignatureFacts
}

// PackageFacts is the union of facts for one analysis run. Exactly one
// of Spec/Binary is populated, matching Kind.
type PackageFacts struct {
	Kind   SourceKind
	Spec   *SpecFacts
	Binary *BinaryFacts
}
