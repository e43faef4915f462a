package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("푸른나눔", "nonprofit")
	cfg.Business.TenantID = "tenant-a"
	cfg.Import.Workers = 4
	cfg.Import.DefaultExpenseCode = "510"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Org", "nonprofit")

	assert.Equal(t, "My Org", cfg.Business.Name)
	assert.Equal(t, "nonprofit", cfg.Business.EntityType)
	assert.Equal(t, "default", cfg.Business.TenantID)
	assert.True(t, cfg.Import.Learn)
	assert.True(t, cfg.Import.SkipDuplicates)
	assert.Zero(t, cfg.Import.Workers)
	assert.Equal(t, "499", cfg.Import.DefaultIncomeCode)
	assert.Equal(t, "599", cfg.Import.DefaultExpenseCode)
	assert.Equal(t, filepath.Join("data", "bankbook.db"), cfg.Storage.Database)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: 푸른나눔\nimport:\n  learn: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "푸른나눔", cfg.Business.Name)
	assert.False(t, cfg.Import.Learn)
	assert.True(t, cfg.Import.SkipDuplicates)
	assert.Equal(t, "599", cfg.Import.DefaultExpenseCode)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Org", "nonprofit")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Org")
	assert.Contains(t, contents, "tenant_id: default")
	assert.Contains(t, contents, "skip_duplicates: true")
	assert.Contains(t, contents, `default_expense_code: "599"`)
}

func TestLoadRepo_EnvOverrides(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(filepath.Join(root, FileName), Default("Org", "nonprofit")))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"),
		[]byte(EnvTenant+"=tenant-from-dotenv\n"+EnvWorkers+"=2\n"), 0o644))
	t.Setenv(EnvDatabase, "/var/lib/bankbook.db")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvTenant, "")
	t.Setenv(EnvWorkers, "")
	os.Unsetenv(EnvTenant)
	os.Unsetenv(EnvWorkers)

	cfg, err := LoadRepo(root)
	require.NoError(t, err)
	assert.Equal(t, "tenant-from-dotenv", cfg.Business.TenantID)
	assert.Equal(t, 2, cfg.Import.Workers)
	assert.Equal(t, "/var/lib/bankbook.db", cfg.Storage.Database)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/lib/bankbook.db", cfg.DatabasePath(root))
}

func TestLoadRepo_NoDotEnv(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(filepath.Join(root, FileName), Default("Org", "nonprofit")))

	cfg, err := LoadRepo(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "data", "bankbook.db"), cfg.DatabasePath(root))
}

func TestApplyEnv_BadWorkers(t *testing.T) {
	t.Setenv(EnvWorkers, "many")
	assert.Error(t, Default("", "").ApplyEnv())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("batch", "imp-1").Debug("hello")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "imp-1", line["batch"])

	_, err = NewLogger(LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
	_, err = NewLogger(LogConfig{Format: "xml"}, &buf)
	assert.Error(t, err)
}
