package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-mpe/gmpe/internal/ledger"
)

// runGmpe executes the CLI in-process against the config in dir and
// returns what it printed on stdout.
func runGmpe(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "gmpe.yaml"),
		"--env-file", "",
		"--style", "plain",
	}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runGmpe(t, dir, args...)
	require.NoError(t, err, "gmpe %s", strings.Join(args, " "))
	return out
}

func initBook(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, dir, append([]string{"init", "--driver", "dir", "--company", "Padaria"}, extra...)...)
	return dir
}

func TestInit(t *testing.T) {
	dir := initBook(t)

	data, err := os.ReadFile(filepath.Join(dir, "gmpe.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "driver: dir")
	assert.Contains(t, string(data), "path: data")
	assert.FileExists(t, filepath.Join(dir, "data", "gmpe_v03_state.json"))

	_, err = runGmpe(t, dir, "init", "--driver", "dir")
	require.Error(t, err, "refuses to overwrite")

	out := mustRun(t, dir, "config", "show")
	assert.Contains(t, out, "company: Padaria")
	assert.Contains(t, out, "currency: BRL")
}

func TestInit_SQLite(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init", "--seed")
	assert.FileExists(t, filepath.Join(dir, "data", "gmpe.db"))

	out := mustRun(t, dir, "tx", "list")
	assert.Contains(t, out, "Aluguel")
	assert.Contains(t, out, "5 lançamento(s).")
}

func TestEndToEnd(t *testing.T) {
	dir := initBook(t)

	mustRun(t, dir, "account", "add", "Banco", "--balance", "500")
	mustRun(t, dir, "tx", "add", "--type", "income", "--date", "2024-03-10", "--amount", "1000",
		"--account", "Banco", "--category", "Vendas")

	out := mustRun(t, dir, "account", "list")
	assert.Contains(t, out, "Banco")
	assert.Contains(t, out, "1.500,00")

	out = mustRun(t, dir, "report", "summary", "--month", "2024-03")
	assert.Contains(t, out, "# Resumo 2024-03 · Padaria")
	assert.Contains(t, out, "Vendas")

	_, err := runGmpe(t, dir, "account", "delete", "Banco")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account has transactions")

	_, err = runGmpe(t, dir, "costcenter", "delete", "Operacional")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last cost center")
}

func TestTxAddRejectsBadInput(t *testing.T) {
	dir := initBook(t)

	_, err := runGmpe(t, dir, "tx", "add", "--amount", "-5", "--category", "x")
	require.Error(t, err)
	_, err = runGmpe(t, dir, "tx", "add", "--amount", "5", "--category", "x", "--date", "10/03/2024")
	require.Error(t, err)
	_, err = runGmpe(t, dir, "tx", "add", "--amount", "5", "--category", "x", "--account", "Nope")
	require.Error(t, err)

	out := mustRun(t, dir, "tx", "list")
	assert.Contains(t, out, "Nenhum lançamento encontrado.")
}

func TestCSVRoundTrip(t *testing.T) {
	src := initBook(t)
	mustRun(t, src, "seed")
	mustRun(t, src, "tx", "add", "--type", "expense", "--date", "2023-12-01", "--amount", "12,5",
		"--category", "Café", "--note", `disse "oi", saiu`)

	csvPath := filepath.Join(src, "ledger.csv")
	mustRun(t, src, "export", "csv", "-o", csvPath)

	dst := initBook(t)
	out := mustRun(t, dst, "import", "csv", csvPath)
	assert.Contains(t, out, "Imported 6 transaction(s), skipped 0")

	out = mustRun(t, dst, "import", "csv", csvPath)
	assert.Contains(t, out, "Imported 0 transaction(s), skipped 6")

	out = mustRun(t, dst, "export", "csv", "-o", "-")
	assert.Contains(t, out, `"disse ""oi"", saiu"`)
	assert.Equal(t, 7, len(strings.Split(strings.TrimSpace(out), "\n")))
}

func TestExportFilteredCSV(t *testing.T) {
	dir := initBook(t)
	mustRun(t, dir, "seed")

	out := mustRun(t, dir, "export", "csv", "-o", dir, "--type", "expense")
	name := "gestao-mpe-filtered-" + time.Now().Format("2006-01-02") + ".csv"
	assert.Contains(t, out, name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	assert.Len(t, lines, 4)
}

func TestBackupRestore(t *testing.T) {
	src := initBook(t)
	mustRun(t, src, "seed")
	backupPath := filepath.Join(src, "backup.json")
	mustRun(t, src, "export", "backup", "-o", backupPath)

	dst := initBook(t)
	out := mustRun(t, dst, "import", "backup", backupPath)
	assert.Contains(t, out, "5 transaction(s)")

	require.NoError(t, os.WriteFile(filepath.Join(dst, "bad.json"), []byte(`{"x": 1}`), 0o644))
	_, err := runGmpe(t, dst, "import", "backup", filepath.Join(dst, "bad.json"))
	require.Error(t, err)

	out = mustRun(t, dst, "tx", "list")
	assert.Contains(t, out, "5 lançamento(s).")
}

func TestInsightsAndProjection(t *testing.T) {
	dir := initBook(t)
	mustRun(t, dir, "seed")

	out := mustRun(t, dir, "insights")
	assert.Contains(t, out, "# Insights "+time.Now().Format("2006"))
	assert.Contains(t, out, "Runway")

	out = mustRun(t, dir, "report", "projection")
	assert.Contains(t, out, "## Dicas")

	out = mustRun(t, dir, "report", "months")
	assert.Contains(t, out, ledger.CurrentMonth(time.Now()))

	mustRun(t, dir, "tx", "add", "--type", "income", "--date", "2021-06-01", "--amount", "10", "--category", "Vendas")
	out = mustRun(t, dir, "report", "years")
	assert.Equal(t, []string{time.Now().Format("2006"), "2021"}, strings.Fields(out))
}

func TestConfigAndWipe(t *testing.T) {
	dir := initBook(t)
	mustRun(t, dir, "seed")

	mustRun(t, dir, "config", "set", "--currency", "usd")
	out := mustRun(t, dir, "config", "theme", "light")
	assert.Contains(t, out, "Theme: light")
	out = mustRun(t, dir, "config", "show")
	assert.Contains(t, out, "company: Padaria")
	assert.Contains(t, out, "currency: USD")
	assert.Contains(t, out, "theme: light")

	_, err := runGmpe(t, dir, "wipe")
	require.Error(t, err)
	out = mustRun(t, dir, "wipe", "--yes")
	assert.Contains(t, out, "Deleted 5 transaction(s)")
	out = mustRun(t, dir, "account", "list")
	assert.Contains(t, out, "Caixa")
}
