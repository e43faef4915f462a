package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bankbook-dev/bankbook/internal/commands"
)

func runBankbook(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runBankbook(t, "init", dir, "--name", "푸른나눔", "--tenant", "tenant-a")
	require.NoError(t, err, out)
	return dir
}

func copyFixture(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

var batchIDPattern = regexp.MustCompile(`Batch (imp-\d{8}-[0-9a-f]{8}):`)

func batchID(t *testing.T, out string) string {
	t.Helper()
	m := batchIDPattern.FindStringSubmatch(out)
	require.NotNil(t, m, "no batch id in output:\n%s", out)
	return m[1]
}
