package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Set via ldflags at build time
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		v, goVersion := buildVersion()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "stormc %s\n", v)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", buildDate)
		fmt.Fprintf(out, "  go:      %s\n", goVersion)
	},
}

// buildVersion falls back to the module version recorded by "go install"
// when no version was set at link time.
func buildVersion() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, "unknown"
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version, info.GoVersion
	}
	return version, info.GoVersion
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
