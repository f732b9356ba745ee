package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/codesense-mcp/internal/engine"
	"github.com/dshills/codesense-mcp/internal/indexer"
	"github.com/dshills/codesense-mcp/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the codebase with a natural-language query",
	Long: `Indexes any files not yet indexed, then prints the snippets most
similar to the query. With the default in-memory index every run starts
from scratch; configure index.backend=sqlite to keep embeddings between runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP("top-k", "k", -1, "maximum number of results (default search.default_top_k)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	topK, _ := cmd.Flags().GetInt("top-k")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if topK < 0 {
		topK = cfg.Search.DefaultTopK
	}

	eng, err := engine.New(cfg, engine.Options{
		Verbose:  verbose,
		Progress: indexer.NewBarProgress(indexer.DefaultProgressEnabled(), os.Stderr),
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	results, err := eng.Searcher.Search(cmd.Context(), query, topK)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printResults(cmd, results)
	return nil
}

func printResults(cmd *cobra.Command, results []types.SearchResult) {
	out := cmd.OutOrStdout()

	if len(results) == 1 && results[0].IsUnavailable() {
		fmt.Fprintln(out, "Semantic search unavailable: set OPENAI_API_KEY or JINA_API_KEY.")
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return
	}

	for i, r := range results {
		fmt.Fprintf(out, "%d. %s:%d-%d  (score %.3f)", i+1, r.FilePath, r.StartLine, r.EndLine, r.Score)
		if r.ParentScope != "" {
			fmt.Fprintf(out, "  [%s]", r.ParentScope)
		}
		fmt.Fprintln(out)
		for _, line := range strings.Split(r.Content, "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
		fmt.Fprintln(out)
	}
}
