package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/accounts"
	"github.com/bankbook-dev/bankbook/internal/auditlog"
	"github.com/bankbook-dev/bankbook/internal/config"
	"github.com/bankbook-dev/bankbook/internal/store"
)

var now = time.Now

// app is what a command needs from an initialised repo.
type app struct {
	root   string
	cfg    *config.Config
	log    *logrus.Logger
	store  *store.Store
	tenant string
}

func addRepoFlag(cmd *cobra.Command, repoDir *string) {
	cmd.Flags().StringVar(repoDir, "repo", ".", "repository directory")
}

func openApp(cmd *cobra.Command, repoDir string) (*app, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadRepo(root)
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DatabasePath(root))
	if err != nil {
		return nil, err
	}

	return &app{
		root:   root,
		cfg:    cfg,
		log:    logger,
		store:  st,
		tenant: cfg.Business.TenantID,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) directory() (*accounts.Directory, error) {
	return accounts.Load(a.root)
}

// audit appends to the import log. Failures are logged, not returned.
func (a *app) audit(e auditlog.Entry) {
	e.Tenant = a.tenant
	if err := auditlog.Append(a.root, e); err != nil {
		a.log.WithError(err).Warn("failed to write import log")
	}
}
