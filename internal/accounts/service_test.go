package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankbook-dev/bankbook/internal/model"
)

func testDirectory() *Directory {
	return NewDirectory(
		DefaultChart("nonprofit"),
		[]model.Project{{ID: "prj_edu", Name: "청소년 교육사업"}},
		[]model.FundSource{{ID: "fs_grant", Name: "지자체 보조금"}},
	)
}

func TestDirectory_Lookup(t *testing.T) {
	d := testDirectory()

	acct, ok := d.Account("acc_503")
	require.True(t, ok)
	assert.Equal(t, "사회보험료", acct.Name)
	assert.True(t, d.Exists("acc_101"))
	assert.False(t, d.Exists("acc_999"))

	p, ok := d.Project("prj_edu")
	assert.True(t, ok)
	assert.Equal(t, "청소년 교육사업", p.Name)
	_, ok = d.Project("prj_gone")
	assert.False(t, ok)

	_, ok = d.FundSource("fs_grant")
	assert.True(t, ok)
}

func TestDirectory_ByType(t *testing.T) {
	d := testDirectory()
	for _, a := range d.ByType(model.AccountTypeRevenue) {
		assert.Equal(t, model.AccountTypeRevenue, a.Type)
	}
	assert.Len(t, d.ByType(model.AccountTypeRevenue), 5)
}

func TestDirectory_ByCode(t *testing.T) {
	d := testDirectory()

	acct, ok := d.ByCode(model.AccountTypeExpense, "503")
	require.True(t, ok)
	assert.Equal(t, "acc_503", acct.ID)

	_, ok = d.ByCode(model.AccountTypeRevenue, "503")
	assert.False(t, ok, "code lookups are restricted to the requested type")

	_, ok = d.ByCode(model.AccountTypeExpense, "")
	assert.False(t, ok)
}

func TestDirectory_ByNameContains(t *testing.T) {
	d := NewDirectory([]model.Account{
		{ID: "a1", Code: "9", Name: "Office Supplies", Type: model.AccountTypeExpense},
		{ID: "a2", Code: "8", Name: "소모품비", Type: model.AccountTypeExpense},
	}, nil, nil)

	acct, ok := d.ByNameContains(model.AccountTypeExpense, "supplies")
	require.True(t, ok)
	assert.Equal(t, "a1", acct.ID)

	acct, ok = d.ByNameContains(model.AccountTypeExpense, "소모품")
	require.True(t, ok)
	assert.Equal(t, "a2", acct.ID)

	_, ok = d.ByNameContains(model.AccountTypeRevenue, "supplies")
	assert.False(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	chart := DefaultChart("nonprofit")
	require.NoError(t, SaveChart(dir, chart))

	for _, name := range []string{"chart-of-accounts.csv", "projects.csv", "fund-sources.csv"} {
		_, err := os.Stat(filepath.Join(dir, "accounts", name))
		require.NoError(t, err, "%s should exist", name)
	}

	d, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, d.All(), len(chart))
	_, ok := d.Project("anything")
	assert.False(t, ok)
}

func TestSaveChart_KeepsExistingProjects(t *testing.T) {
	dir := t.TempDir()
	acctDir := filepath.Join(dir, "accounts")
	require.NoError(t, os.MkdirAll(acctDir, 0o755))

	src, err := os.ReadFile("../../testdata/projects.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(acctDir, "projects.csv"), src, 0o644))

	require.NoError(t, SaveChart(dir, DefaultChart("nonprofit")))

	d, err := Load(dir)
	require.NoError(t, err)
	_, ok := d.Project("prj_food")
	assert.True(t, ok)
}

func TestLoad_MissingChart(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
