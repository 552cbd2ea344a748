package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector index statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		index, err := newVectorIndex(cfg)
		if err != nil {
			return err
		}
		defer index.Close()

		stats, err := index.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Collection: %s\n", stats.CollectionName)
		fmt.Printf("Records:    %d\n", stats.TotalCount)
		fmt.Printf("Location:   %s\n", stats.Location)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
