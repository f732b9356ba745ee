package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/codesense-mcp/internal/engine"
	"github.com/dshills/codesense-mcp/internal/indexer"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the codebase without searching",
	Long: `Embeds every source file not yet indexed. Useful with
index.backend=sqlite to prepare an index ahead of time.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg, engine.Options{
		Verbose:  verbose,
		Progress: indexer.NewBarProgress(indexer.DefaultProgressEnabled(), os.Stderr),
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	out := cmd.OutOrStdout()
	if !eng.Embedder.Available() {
		fmt.Fprintln(out, "Semantic search unavailable: set OPENAI_API_KEY or JINA_API_KEY.")
		return nil
	}

	stats, err := eng.Searcher.Warm(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Indexed %d files (%d skipped, %d ignored, %d failed)\n",
		stats.FilesIndexed, stats.FilesSkipped, stats.FilesIgnored, stats.FilesFailed)
	fmt.Fprintf(out, "Chunks: %d embedded, %d discarded, %d failed\n",
		stats.ChunksEmbedded, stats.ChunksDiscarded, stats.ChunksFailed)
	fmt.Fprintf(out, "Duration: %v\n", stats.Duration)

	if verbose {
		for _, msg := range stats.ErrorMessages {
			fmt.Fprintf(out, "  error: %s\n", msg)
		}
	}
	return nil
}
