package accounts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bankbook-dev/bankbook/internal/model"
)

const (
	accountsDir     = "accounts"
	chartFile       = "chart-of-accounts.csv"
	projectsFile    = "projects.csv"
	fundSourcesFile = "fund-sources.csv"
)

// Directory is a read-only view of a tenant's accounts, projects and fund
// sources.
type Directory struct {
	accounts    []model.Account
	byID        map[string]model.Account
	projects    map[string]model.Project
	fundSources map[string]model.FundSource
}

// NewDirectory builds a Directory from slices.
func NewDirectory(accounts []model.Account, projects []model.Project, fundSources []model.FundSource) *Directory {
	d := &Directory{
		accounts:    accounts,
		byID:        make(map[string]model.Account, len(accounts)),
		projects:    make(map[string]model.Project, len(projects)),
		fundSources: make(map[string]model.FundSource, len(fundSources)),
	}
	for _, a := range accounts {
		d.byID[a.ID] = a
	}
	for _, p := range projects {
		d.projects[p.ID] = p
	}
	for _, f := range fundSources {
		d.fundSources[f.ID] = f
	}
	return d
}

// Load reads the accounts/ directory of a repo root. Projects and fund
// sources are optional.
func Load(repoRoot string) (*Directory, error) {
	dir := filepath.Join(repoRoot, accountsDir)

	f, err := os.Open(filepath.Join(dir, chartFile))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}

	var projects []model.Project
	if err := readOptional(filepath.Join(dir, projectsFile), func(f *os.File) (err error) {
		projects, err = ReadProjects(f)
		return err
	}); err != nil {
		return nil, err
	}

	var sources []model.FundSource
	if err := readOptional(filepath.Join(dir, fundSourcesFile), func(f *os.File) (err error) {
		sources, err = ReadFundSources(f)
		return err
	}); err != nil {
		return nil, err
	}

	return NewDirectory(accts, projects, sources), nil
}

func readOptional(path string, read func(*os.File) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if err := read(f); err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return nil
}

// All returns all accounts.
func (d *Directory) All() []model.Account {
	return d.accounts
}

// Account returns an account by ID.
func (d *Directory) Account(id string) (model.Account, bool) {
	a, ok := d.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (d *Directory) Exists(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (d *Directory) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range d.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// ByCode finds an account of the given type by exact code.
func (d *Directory) ByCode(accountType model.AccountType, code string) (model.Account, bool) {
	if code == "" {
		return model.Account{}, false
	}
	for _, a := range d.accounts {
		if a.Type == accountType && a.Code == code {
			return a, true
		}
	}
	return model.Account{}, false
}

// ByNameContains finds the first account of the given type whose name
// contains name, ignoring case.
func (d *Directory) ByNameContains(accountType model.AccountType, name string) (model.Account, bool) {
	if name == "" {
		return model.Account{}, false
	}
	needle := strings.ToLower(name)
	for _, a := range d.accounts {
		if a.Type == accountType && strings.Contains(strings.ToLower(a.Name), needle) {
			return a, true
		}
	}
	return model.Account{}, false
}

// Project returns a project by ID.
func (d *Directory) Project(id string) (model.Project, bool) {
	p, ok := d.projects[id]
	return p, ok
}

// FundSource returns a fund source by ID.
func (d *Directory) FundSource(id string) (model.FundSource, bool) {
	f, ok := d.fundSources[id]
	return f, ok
}

// SaveChart writes accounts to accounts/chart-of-accounts.csv and, when they
// do not exist yet, empty projects.csv and fund-sources.csv files.
func SaveChart(repoRoot string, accounts []model.Account) error {
	dir := filepath.Join(repoRoot, accountsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, chartFile))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	empty := map[string][2]string{
		projectsFile:    {"project_id", "project_name"},
		fundSourcesFile: {"fund_source_id", "fund_source_name"},
	}
	for name, header := range empty {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		nf, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		werr := WriteNamed(nf, header, nil)
		cerr := nf.Close()
		if werr != nil {
			return fmt.Errorf("writing %s: %w", name, werr)
		}
		if cerr != nil {
			return fmt.Errorf("closing %s: %w", name, cerr)
		}
	}
	return nil
}
