package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specdex/specdex/internal/core/ports/driving"
	"github.com/specdex/specdex/internal/core/services"
)

var (
	flagLimit   int
	flagSource  string
	flagJSON    bool
	flagContext bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the index for relevant chunks",
	Long: `Embeds the query and returns the most similar indexed chunks,
ranked by cosine similarity. Use --source to restrict results to
chunks whose source filename contains the given substring.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().StringVar(&flagSource, "source", "", "only return chunks whose source contains this substring")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&flagContext, "context", false, "output results as a single context block")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	retriever := services.NewRetrievalService(embedder, index, cfg.Retrieval.TopK)
	documents, err := retriever.Retrieve(ctx, args[0], driving.RetrieveOptions{
		TopK:         flagLimit,
		SourceFilter: flagSource,
	})
	if err != nil {
		return err
	}

	switch {
	case flagJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(documents)

	case flagContext:
		fmt.Print(retriever.FormatContext(documents))
		return nil

	default:
		if len(documents) == 0 {
			fmt.Println("No results.")
			return nil
		}
		for i, doc := range documents {
			fmt.Printf("%d. %s (chunk %d, similarity %.3f)\n", i+1, doc.Source, doc.ChunkIndex, doc.Similarity)
			fmt.Printf("   %s\n\n", truncate(doc.Text, 200))
		}
		return nil
	}
}

// truncate shortens s to at most n runes for terminal display.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
