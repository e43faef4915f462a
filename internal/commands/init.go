package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/accounts"
	"github.com/bankbook-dev/bankbook/internal/config"
	"github.com/bankbook-dev/bankbook/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var entityType string
	var tenant string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bankbook project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, name, entityType, tenant); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized bankbook project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "organisation name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&entityType, "entity-type", "nonprofit", "entity type")
	cmd.Flags().StringVar(&tenant, "tenant", "default", "tenant ID")

	return cmd
}

func runInit(dir, name, entityType, tenant string) error {
	dirs := []string{
		"accounts",
		"data",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name, entityType)
	cfg.Business.TenantID = tenant
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.SaveChart(dir, accounts.DefaultChart(entityType)); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	gitignore := "data/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	st, err := store.Open(cfg.DatabasePath(dir))
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	return st.Close()
}
