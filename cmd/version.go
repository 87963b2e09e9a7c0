package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repocat/pkg/version"
)

// versionCmd prints the build version information. The --short flag limits
// the output to the bare version string.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of repocat",
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		v := version.Get()
		if short {
			fmt.Println(v.Version)
		} else {
			fmt.Println(v.String())
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	RootCmd.AddCommand(versionCmd)
}
