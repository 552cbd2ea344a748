package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the specdex version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("specdex %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
