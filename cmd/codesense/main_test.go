package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codesense-mcp/internal/embedder"
	"github.com/dshills/codesense-mcp/pkg/types"
)

const mathSource = `namespace Demo
{
    public static class MathUtil
    {
        public static int Add(int a, int b)
        {
            return a + b;
        }
    }
}
`

// run executes the root command with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, baseDir, verbose = "codesense.yaml", "", false
	require.NoError(t, searchCmd.Flags().Set("json", "false"))
	require.NoError(t, searchCmd.Flags().Set("top-k", "-1"))
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func setupProject(t *testing.T) string {
	t.Helper()
	t.Setenv(embedder.EnvOpenAIAPIKey, "")
	t.Setenv(embedder.EnvJinaAPIKey, "")
	t.Setenv("CODESENSE_EMBEDDING__PROVIDER", embedder.ProviderLocal)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "MathUtil.cs"), []byte(mathSource), 0644))
	return root
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "codesense "+Version)
	assert.Contains(t, out, "SQLite Driver:")
}

func TestSearchCommand_JSON(t *testing.T) {
	root := setupProject(t)

	out, err := run(t, "search", "--dir", root, "--json", "-k", "3", "add", "numbers")
	require.NoError(t, err)

	var results []types.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "MathUtil.cs", filepath.Base(results[0].FilePath))
	assert.Equal(t, 1, results[0].StartLine)
	assert.Equal(t, 10, results[0].EndLine)
}

func TestSearchCommand_Text(t *testing.T) {
	root := setupProject(t)

	out, err := run(t, "search", "--dir", root, "add numbers")
	require.NoError(t, err)
	assert.Contains(t, out, "MathUtil.cs:1-10")
	assert.Contains(t, out, "return a + b;")
}

func TestSearchCommand_Unavailable(t *testing.T) {
	root := setupProject(t)
	t.Setenv("CODESENSE_EMBEDDING__PROVIDER", "")

	out, err := run(t, "search", "--dir", root, "add numbers")
	require.NoError(t, err)
	assert.Contains(t, out, "Semantic search unavailable")
}

func TestIndexCommand(t *testing.T) {
	root := setupProject(t)

	out, err := run(t, "index", "--dir", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 1 files")
	assert.Contains(t, out, "Chunks: 1 embedded")
}

func TestSearchCommand_RequiresQuery(t *testing.T) {
	_, err := run(t, "search")
	assert.Error(t, err)
}
