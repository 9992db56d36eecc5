package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rpmcheck",
		Short: "Validate RPM packages and spec files against packaging guidelines",
		Long: `Rpmcheck analyzes RPM spec files and binary packages against a body
of packaging guidelines and reports categorized, actionable findings.

Checked areas include naming conventions, required metadata, macro
usage, scriptlets, changelog formatting, SPDX license identifiers,
dependency sanity and file placement. When rpmlint is installed its
diagnostics are merged into the same report.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewCheckCmd())

	return rootCmd
}
