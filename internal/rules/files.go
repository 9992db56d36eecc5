package rules

import (
	"fmt"
	"path"
	"strings"

	"github.com/yeager/rpmcheck/internal/models"
)

// Packages must not install anything under these prefixes.
var disallowedPrefixes = []string{"/usr/local/", "/tmp/", "/var/tmp/"}

// Recognized library directories for shared objects.
var libraryDirs = []string{"/usr/lib/", "/usr/lib64/", "/lib/", "/lib64/"}

const symlinkModeBits = 0o120000

// buildIDPath reports debuginfo hardlink paths, which are exempt from
// placement policy.
func buildIDPath(p string) bool {
	return strings.Contains(p, "/.build-id/") || p == "/usr/lib/.build-id"
}

// FilePlacementRule flags files in disallowed locations.
type FilePlacementRule struct{ binaryOnly }

func (FilePlacementRule) ID() string                { return "file-placement" }
func (FilePlacementRule) Category() models.Category { return models.CategoryFilePlacement }

func (r FilePlacementRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	add := func(message, suggestion, location string) {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityError,
			Message:    message,
			Suggestion: suggestion,
			Location:   location,
		})
	}

	for _, f := range facts.Binary.Files {
		if buildIDPath(f.Path) {
			continue
		}
		if strings.HasPrefix(f.Path, "/") && strings.Count(f.Path, "/") == 1 && len(f.Path) > 1 {
			add(fmt.Sprintf("File %s is installed directly under /.", f.Path),
				"Install files under the appropriate FHS directory, not the filesystem root.",
				f.Path)
			continue
		}
		for _, prefix := range disallowedPrefixes {
			if strings.HasPrefix(f.Path, prefix) {
				add(fmt.Sprintf("File %s is installed under %s.", f.Path, prefix),
					fmt.Sprintf("Packages must not install files under %s.", prefix),
					f.Path)
				break
			}
		}
	}
	return findings
}

// SharedLibraryPlacementRule checks that shared objects live under a
// recognized library directory.
type SharedLibraryPlacementRule struct{ binaryOnly }

func (SharedLibraryPlacementRule) ID() string                { return "library-placement" }
func (SharedLibraryPlacementRule) Category() models.Category { return models.CategoryFilePlacement }

func (r SharedLibraryPlacementRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	for _, f := range facts.Binary.Files {
		if buildIDPath(f.Path) || !sharedObjectName(path.Base(f.Path)) {
			continue
		}
		inLibDir := false
		for _, dir := range libraryDirs {
			if strings.HasPrefix(f.Path, dir) {
				inLibDir = true
				break
			}
		}
		if inLibDir {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Shared library %s is outside the standard library directories.", f.Path),
			Suggestion: "Install shared objects under %{_libdir}.",
			Location:   f.Path,
		})
	}
	return findings
}

// sharedObjectName matches "libfoo.so" and versioned "libfoo.so.1.2".
func sharedObjectName(base string) bool {
	return strings.HasSuffix(base, ".so") || strings.Contains(base, ".so.")
}

// FileModeRule flags world-writable files.
type FileModeRule struct{ binaryOnly }

func (FileModeRule) ID() string                { return "file-mode" }
func (FileModeRule) Category() models.Category { return models.CategoryFilePlacement }

func (r FileModeRule) Check(facts *models.PackageFacts, _ *models.NormalizedLicense) []models.Finding {
	var findings []models.Finding
	for _, f := range facts.Binary.Files {
		if f.Mode&0o170000 == symlinkModeBits {
			continue
		}
		if f.Mode&0o002 == 0 {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityError,
			Message:    fmt.Sprintf("File %s is world-writable (mode %04o).", f.Path, f.Mode&0o7777),
			Suggestion: "Drop the world-writable bit; use 0644 for files and 0755 for directories.",
			Location:   f.Path,
		})
	}
	return findings
}
