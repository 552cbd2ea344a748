package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all records from the vector index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !flagYes {
			return fmt.Errorf("clear deletes every indexed record; pass --yes to confirm")
		}

		index, err := newVectorIndex(cfg)
		if err != nil {
			return err
		}
		defer index.Close()

		if err := index.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Index cleared.")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&flagYes, "yes", false, "confirm deletion")
	rootCmd.AddCommand(clearCmd)
}
