package cmd

import (
	"fmt"

	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionShort   bool
	versionVerbose bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print lifeos version",
	RunE:  hook.Wrap("version", runVersion),
}

func runVersion(_ *cobra.Command, _ []string) error {
	switch {
	case versionShort:
		fmt.Println(version.Short())
	case versionVerbose:
		fmt.Printf("lifeos %s\n", version.Full())
		fmt.Println(version.Platform())
	default:
		fmt.Printf("lifeos %s\n", version.Full())
	}
	return nil
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "Also print the Go version and platform")
}
