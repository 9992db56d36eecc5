package rules

import (
	"fmt"

	"github.com/yeager/rpmcheck/internal/models"
)

// lineRef formats a spec line number as a finding location.
func lineRef(line int) string {
	if line <= 0 {
		return ""
	}
	return fmt.Sprintf("line %d", line)
}

// packageName returns the declared package name for either fact kind.
func packageName(facts *models.PackageFacts) models.Field {
	switch facts.Kind {
	case models.SourceSpec:
		return facts.Spec.Name
	case models.SourceBinary:
		return facts.Binary.Name
	}
	return models.Field{}
}

// versionFields returns the declared version and release.
func versionFields(facts *models.PackageFacts) (version, release models.Field) {
	switch facts.Kind {
	case models.SourceSpec:
		return facts.Spec.Version, facts.Spec.Release
	case models.SourceBinary:
		return facts.Binary.Version, facts.Binary.Release
	}
	return models.Field{}, models.Field{}
}

// allDependencies returns every declared dependency expression.
func allDependencies(facts *models.PackageFacts) []models.Dependency {
	switch facts.Kind {
	case models.SourceSpec:
		deps := make([]models.Dependency, 0, len(facts.Spec.Requires)+len(facts.Spec.BuildRequires))
		deps = append(deps, facts.Spec.Requires...)
		deps = append(deps, facts.Spec.BuildRequires...)
		return deps
	case models.SourceBinary:
		return facts.Binary.Requires
	}
	return nil
}
