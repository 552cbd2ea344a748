package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/specdex/specdex/internal/core/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and re-index documents as they change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ingest := newIngestService(ctx, cfg)

		embedder, err := newEmbeddingService(cfg)
		if err != nil {
			return err
		}
		defer embedder.Close()

		index, err := newVectorIndex(cfg)
		if err != nil {
			return err
		}
		defer index.Close()

		indexer := newIndexerService(embedder, index, cfg)

		err = services.NewWatcher(ingest, indexer).Run(ctx, args[0])
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
