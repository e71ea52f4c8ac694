package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd("1.2.3")
	require.NotNil(t, root)

	assert.Equal(t, "eodhist", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{
		"exchanges", "symbols", "history", "marketcap",
		"fundamentals", "download", "cache",
	} {
		assert.Contains(t, names, want)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	root := NewRootCmd("dev")

	for _, name := range []string{"config", "base-path", "api-token", "debug", "stale-days"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}

	staleDays, err := root.PersistentFlags().GetInt("stale-days")
	require.NoError(t, err)
	assert.Equal(t, -1, staleDays, "unset stale-days means dataset default")
}

func TestDownloadSubcommands(t *testing.T) {
	root := NewRootCmd("dev")

	download, _, err := root.Find([]string{"download"})
	require.NoError(t, err)

	var names []string
	for _, sub := range download.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"history", "marketcap", "fundamentals"}, names)
}

func TestCallOptionsFromFlags(t *testing.T) {
	assert.Empty(t, callOptions(&rootFlags{staleDays: -1}))
	assert.Len(t, callOptions(&rootFlags{staleDays: 0}), 1)
	assert.Len(t, callOptions(&rootFlags{staleDays: 7}), 1)
}

func TestParseDateFlag(t *testing.T) {
	got, err := parseDateFlag("start", "2023-04-01")
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year())

	got, err = parseDateFlag("start", "")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseDateFlag("start", "04/01/2023")
	assert.Error(t, err)
}

func TestStatementTypeFlag(t *testing.T) {
	for name, want := range map[string]string{
		"balance":  "Balance_Sheet",
		"income":   "Income_Statement",
		"cashflow": "Cash_Flow",
	} {
		st, err := statementType(name)
		require.NoError(t, err)
		assert.Equal(t, want, string(st))
	}

	_, err := statementType("equity")
	assert.Error(t, err)
}

func TestReadSymbolsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.txt")
	content := "AAPL\n\n# watchlist\nMSFT\n  GOOG  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	symbols, err := readSymbolsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, symbols)

	_, err = readSymbolsFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
