// Package cli implements the specdex command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specdex/specdex/internal/adapters/driven/config/file"
	"github.com/specdex/specdex/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagConfig  string

	cfg file.Config
)

var rootCmd = &cobra.Command{
	Use:   "specdex",
	Short: "Index and search technical documents",
	Long: `specdex ingests PDF, DOCX and legacy DOC documents, splits them
into overlapping chunks and retrieves the most relevant chunks for a
query against a persisted vector index.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		path := flagConfig
		if path == "" {
			var err error
			path, err = file.DefaultPath()
			if err != nil {
				return err
			}
		}

		loaded, err := file.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		logger.Debug("Config loaded from %s", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.specdex/config.toml)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
