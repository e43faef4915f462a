package commands

import (
	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bankbook",
		Short:   "Bank statement import and bookkeeping for small organisations",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(),
		newUndoCommand(),
		newBatchesCommand(),
		newHistoryCommand(),
		newLearnedCommand(),
		newTemplatesCommand(),
	)

	return rootCmd
}
