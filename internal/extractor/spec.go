package extractor

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yeager/rpmcheck/internal/models"
)

var (
	// Header fields look like "Key: value"; keys may carry a scriptlet
	// qualifier, e.g. "Requires(post)".
	headerFieldRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*(?:\([a-z]+\))?)\s*:\s*(.*)$`)

	// Macro invocations: %{name...} and bare %name forms.
	macroRe = regexp.MustCompile(`%\{!?\??([A-Za-z_][A-Za-z0-9_]*)[^}]*\}|%([A-Za-z_][A-Za-z0-9_]*)`)

	emailRe = regexp.MustCompile(`<[^<>@\s]+@[^<>\s]+>`)

	comparatorRe = regexp.MustCompile(`^[<>=]+$`)
)

// scriptletKinds are the recognized scriptlet section names, without
// the leading percent sign.
var scriptletKinds = map[string]bool{
	"pre":       true,
	"post":      true,
	"preun":     true,
	"postun":    true,
	"pretrans":  true,
	"posttrans": true,
}

// sectionDirectives are spec section keywords whose leading token must
// not be collected as a macro invocation.
var sectionDirectives = map[string]bool{
	"description": true, "package": true, "prep": true, "build": true,
	"install": true, "check": true, "files": true, "changelog": true,
	"clean": true, "pre": true, "post": true, "preun": true,
	"postun": true, "pretrans": true, "posttrans": true,
	"if": true, "ifarch": true, "ifnarch": true, "ifos": true,
	"else": true, "endif": true,
}

// ExtractSpecBytes scans spec-file text into structured facts. The scan
// is line oriented and tolerant: unknown or malformed constructs are
// recorded or skipped, never fatal. Only input that is not UTF-8 text
// at all is rejected.
func ExtractSpecBytes(data []byte) (*models.SpecFacts, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("input is not UTF-8 text")
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("input contains NUL bytes, not a spec file")
	}

	facts := &models.SpecFacts{}
	seenMacros := make(map[string]bool)

	section := "preamble"
	var scriptlet *models.Scriptlet
	var entry *models.ChangelogEntry

	flushScriptlet := func() {
		if scriptlet != nil {
			facts.Scriptlets = append(facts.Scriptlets, *scriptlet)
			scriptlet = nil
		}
	}
	flushEntry := func() {
		if entry != nil {
			facts.Changelog = append(facts.Changelog, *entry)
			entry = nil
		}
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		// Section transitions. A scriptlet body ends at the next
		// directive line; "%{...}" at the start of a line is a macro,
		// not a directive.
		if strings.HasPrefix(trimmed, "%") && !strings.HasPrefix(trimmed, "%{") {
			name := strings.TrimPrefix(strings.Fields(trimmed)[0], "%")
			switch {
			case scriptletKinds[name]:
				flushScriptlet()
				flushEntry()
				section = "scriptlet"
				scriptlet = &models.Scriptlet{Kind: name, Line: lineNo}
				continue
			case name == "changelog":
				flushScriptlet()
				section = "changelog"
				facts.HasChangelog = true
				continue
			case name == "description":
				flushScriptlet()
				flushEntry()
				section = "description"
				facts.HasDescription = true
				continue
			case name == "clean":
				flushScriptlet()
				flushEntry()
				section = "clean"
				facts.HasClean = true
				continue
			case sectionDirectives[name]:
				flushScriptlet()
				flushEntry()
				section = name
				continue
			}
		}

		switch section {
		case "changelog":
			scanChangelogLine(facts, &entry, line, lineNo)
			continue
		case "scriptlet":
			if scriptlet != nil && trimmed != "" {
				scriptlet.Body = append(scriptlet.Body, trimmed)
			}
		}

		collectMacros(facts, seenMacros, trimmed)
		collectHardcodedPaths(facts, trimmed, lineNo)

		if m := headerFieldRe.FindStringSubmatch(trimmed); m != nil && section != "scriptlet" {
			scanHeaderField(facts, m[1], m[2], lineNo)
		}
	}
	flushScriptlet()
	flushEntry()

	return facts, nil
}

// scanHeaderField records one "Key: value" line. For singleton fields
// the first occurrence wins; later duplicates are recorded but not
// authoritative.
func scanHeaderField(facts *models.SpecFacts, key, value string, line int) {
	lower := strings.ToLower(key)

	setField := func(f *models.Field) {
		if f.Defined {
			facts.DuplicateFields = append(facts.DuplicateFields, models.DuplicateField{Key: key, Line: line})
			return
		}
		*f = models.Field{Value: strings.TrimSpace(value), Defined: true, Line: line}
	}

	switch {
	case lower == "name":
		setField(&facts.Name)
	case lower == "version":
		setField(&facts.Version)
	case lower == "release":
		setField(&facts.Release)
	case lower == "summary":
		setField(&facts.Summary)
	case lower == "license":
		setField(&facts.License)
	case lower == "group":
		setField(&facts.Group)
	case lower == "url":
		setField(&facts.URL)
	case lower == "buildroot":
		facts.HasBuildRoot = true
	case lower == "source" || (strings.HasPrefix(lower, "source") && isDigits(lower[len("source"):])):
		facts.Sources = append(facts.Sources, strings.TrimSpace(value))
	case lower == "buildrequires":
		facts.BuildRequires = append(facts.BuildRequires, parseDependencies(value, line)...)
	case lower == "requires" || strings.HasPrefix(lower, "requires("):
		facts.Requires = append(facts.Requires, parseDependencies(value, line)...)
	}
}

// parseDependencies splits a dependency value into expressions. Both
// comma and whitespace separated lists are accepted; a comparator token
// binds the following token as a version.
func parseDependencies(value string, line int) []models.Dependency {
	var deps []models.Dependency
	for _, clause := range strings.Split(value, ",") {
		tokens := strings.Fields(clause)
		for j := 0; j < len(tokens); j++ {
			tok := tokens[j]
			if comparatorRe.MatchString(tok) {
				if len(deps) > 0 {
					d := &deps[len(deps)-1]
					d.Comparator = tok
					if j+1 < len(tokens) {
						d.Version = tokens[j+1]
						j++
					}
					d.Raw = strings.TrimSpace(d.Name + " " + d.Comparator + " " + d.Version)
				}
				continue
			}
			deps = append(deps, models.Dependency{Raw: tok, Name: tok, Line: line})
		}
	}
	return deps
}

// scanChangelogLine handles one line inside the %changelog section.
// Lines starting with "*" open a new entry; the expected header form is
// "* Day Mon DD YYYY Name <email> - version". Entries that do not match
// are kept and marked malformed.
func scanChangelogLine(facts *models.SpecFacts, entry **models.ChangelogEntry, line string, lineNo int) {
	if !strings.HasPrefix(line, "*") {
		if *entry != nil && strings.TrimSpace(line) != "" {
			(*entry).Body = append((*entry).Body, strings.TrimSpace(line))
		}
		return
	}

	if *entry != nil {
		facts.Changelog = append(facts.Changelog, **entry)
	}

	e := &models.ChangelogEntry{Raw: strings.TrimSpace(line), Line: lineNo}
	*entry = e

	rest := strings.TrimSpace(strings.TrimPrefix(line, "*"))
	tokens := strings.Fields(rest)
	if len(tokens) < 5 {
		e.Malformed = true
		return
	}

	// The weekday token is not validated; the date proper is.
	date, err := time.Parse("Jan 2 2006", strings.Join(tokens[1:4], " "))
	if err != nil {
		e.Malformed = true
	} else {
		e.Date = date
		e.DateValid = true
	}

	loc := emailRe.FindStringIndex(rest)
	if loc == nil {
		e.Malformed = true
		return
	}
	e.Author = strings.TrimSpace(rest[:loc[1]])
	// Start the author after the date tokens when possible.
	if idx := strings.Index(e.Author, tokens[3]); idx >= 0 {
		e.Author = strings.TrimSpace(e.Author[idx+len(tokens[3]):])
	}

	tail := strings.TrimSpace(rest[loc[1]:])
	tail = strings.TrimSpace(strings.TrimPrefix(tail, "-"))
	if tail != "" {
		e.Version = tail
	}
}

// collectMacros records macro invocation tokens in first-seen order.
func collectMacros(facts *models.SpecFacts, seen map[string]bool, trimmed string) {
	matches := macroRe.FindAllStringSubmatch(trimmed, -1)
	for idx, m := range matches {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		// The leading token of a section directive is not a macro use.
		if idx == 0 && strings.HasPrefix(trimmed, "%"+name) && sectionDirectives[name] {
			continue
		}
		if !seen[name] {
			seen[name] = true
			facts.Macros = append(facts.Macros, name)
		}
	}
}

// collectHardcodedPaths records path literals that have a standard
// macro replacement. Source lines legitimately carry URL paths.
func collectHardcodedPaths(facts *models.SpecFacts, trimmed string, lineNo int) {
	isSource := strings.HasPrefix(trimmed, "Source")
	record := func(prefix string) {
		facts.HardcodedPaths = append(facts.HardcodedPaths, models.HardcodedPath{Prefix: prefix, Line: lineNo})
	}

	if strings.Contains(trimmed, "/usr/lib/") && !strings.Contains(trimmed, "%{_libdir}") {
		record("/usr/lib/")
	}
	if strings.Contains(trimmed, "/usr/bin/") && !strings.Contains(trimmed, "%{_bindir}") && !isSource {
		record("/usr/bin/")
	}
	if strings.Contains(trimmed, "/usr/share/") && !strings.Contains(trimmed, "%{_datadir}") && !isSource {
		record("/usr/share/")
	}
	if strings.Contains(trimmed, "/etc/") && !strings.Contains(trimmed, "%{_sysconfdir}") && !isSource {
		record("/etc/")
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
