package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yeager/rpmcheck/internal/config"
	"github.com/yeager/rpmcheck/internal/engine"
	"github.com/yeager/rpmcheck/internal/extractor"
	"github.com/yeager/rpmcheck/internal/models"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	var (
		cfgFile  string
		kindFlag string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Check a spec file or binary RPM",
		Long: `Analyzes the given .spec or .rpm file and prints a report of policy
findings grouped by category.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			kind, err := resolveKind(kindFlag, path)
			if err != nil {
				return err
			}

			eng, err := engine.New(cfg)
			if err != nil {
				return err
			}

			logrus.Infof("Checking %s input: %s", kind, path)
			rep, err := eng.Analyze(cmd.Context(), kind, path)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			renderText(rep)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Input kind: spec or rpm (default: detect)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")

	return cmd
}

// resolveKind honors an explicit --kind and otherwise classifies by
// extension and magic bytes.
func resolveKind(flag, path string) (models.SourceKind, error) {
	switch flag {
	case "":
		return extractor.DetectKind(path)
	case "spec":
		return models.SourceSpec, nil
	case "rpm", "binary":
		return models.SourceBinary, nil
	default:
		return models.SourceUnknown, fmt.Errorf("unknown input kind %q (use spec or rpm)", flag)
	}
}

var severityMarkers = map[models.Severity]string{
	models.SeverityError:   "E",
	models.SeverityWarning: "W",
	models.SeverityInfo:    "I",
}

// renderText prints the report grouped by category, keeping the
// report's severity order inside each group.
func renderText(rep *models.Report) {
	if rep.Summary.Total == 0 {
		fmt.Println("All checks passed!")
		return
	}

	for _, cat := range models.Categories {
		count := rep.Summary.ByCategory[cat.String()]
		if count == 0 {
			continue
		}
		fmt.Printf("\n%s (%d)\n", cat, count)
		for _, f := range rep.Findings {
			if f.Category != cat {
				continue
			}
			loc := ""
			if f.Location != "" {
				loc = " (" + f.Location + ")"
			}
			fmt.Printf("  [%s] %s: %s%s\n", severityMarkers[f.Severity], f.RuleID, f.Message, loc)
			fmt.Printf("      fix: %s\n", f.Suggestion)
		}
	}

	fmt.Printf("\n%d findings: %d errors, %d warnings, %d info\n",
		rep.Summary.Total, rep.Summary.Errors, rep.Summary.Warnings, rep.Summary.Infos)
}
