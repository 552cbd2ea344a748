package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specdex/specdex/internal/core/domain"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "Show supported formats and available extraction backends",
	RunE: func(cmd *cobra.Command, _ []string) error {
		capabilities := newIngestService(cmd.Context(), cfg).Capabilities()

		for _, format := range domain.AllFormats() {
			backend, ok := capabilities[format]
			if !ok {
				backend = "unavailable"
			}
			fmt.Printf("%-6s %s\n", format, backend)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
