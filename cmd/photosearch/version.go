package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/photosearch/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "photosearch %s\n", version.Version)
		fmt.Fprintf(out, "  Commit: %s\n", version.Commit)
		fmt.Fprintf(out, "  Built:  %s\n", version.Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
