package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config is needed to print the version.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		rev := commit
		if rev == "" {
			if info, ok := debug.ReadBuildInfo(); ok {
				for _, s := range info.Settings {
					if s.Key == "vcs.revision" {
						rev = s.Value
					}
				}
			}
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "docstruct %s\n", version)
		fmt.Fprintf(out, "  Go:     %s\n", runtime.Version())
		if rev != "" {
			fmt.Fprintf(out, "  Commit: %s\n", rev)
		}
	},
}
