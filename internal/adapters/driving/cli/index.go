package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specdex/specdex/internal/adapters/driven/chunkfile"
	"github.com/specdex/specdex/internal/core/domain"
)

var (
	flagChunksOut  string
	flagFromChunks string
	flagNoIndex    bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Ingest documents and build the vector index",
	Long: `Extracts, normalizes and chunks the document (or every supported
document in the directory) at path, then embeds the chunks and loads
them into the configured vector index.

With --from-chunks the extraction stage is skipped and a previously
saved chunk file is indexed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&flagChunksOut, "chunks-out", "", "write chunk records to this JSON file")
	indexCmd.Flags().StringVar(&flagFromChunks, "from-chunks", "", "index a previously saved chunk file instead of extracting")
	indexCmd.Flags().BoolVar(&flagNoIndex, "no-index", false, "stop after chunking; do not embed or index")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var chunks []domain.Chunk
	switch {
	case flagFromChunks != "":
		loaded, err := chunkfile.NewStore().Load(flagFromChunks)
		if err != nil {
			return err
		}
		chunks = loaded

	case len(args) == 1:
		ingest := newIngestService(ctx, cfg)

		info, err := os.Stat(args[0])
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", domain.ErrNotFound, args[0])
			}
			return err
		}

		if info.IsDir() {
			batch, err := ingest.ProcessDirectory(ctx, args[0])
			if err != nil {
				return err
			}
			chunks = batch.Chunks
		} else {
			chunks, err = ingest.ProcessDocument(ctx, args[0])
			if err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w: provide a path or --from-chunks", domain.ErrInvalidInput)
	}

	if len(chunks) == 0 {
		fmt.Println("No chunks produced; nothing to index.")
		return nil
	}

	if flagChunksOut != "" {
		if err := chunkfile.NewStore().Save(flagChunksOut, chunks); err != nil {
			return err
		}
	}
	if flagNoIndex {
		fmt.Printf("Chunked %d records (indexing skipped).\n", len(chunks))
		return nil
	}

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

	if err := newIndexerService(embedder, index, cfg).BuildIndex(ctx, chunks); err != nil {
		return err
	}

	fmt.Printf("Indexed %d chunks.\n", len(chunks))
	return nil
}
