package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/codesense-mcp/internal/config"
)

var (
	cfgFile string
	baseDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "codesense",
	Short: "Semantic code search over embeddings",
	Long: `codesense finds code by meaning. Source files are split into
brace-aware windows, embedded with OpenAI or Jina, and ranked by cosine
similarity against a natural-language query. It runs as an MCP server
for AI coding assistants or directly from the command line.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "codesense.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "codebase root (overrides base_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads configuration and applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if baseDir != "" {
		cfg.BaseDir = baseDir
	}
	return cfg, nil
}
