package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/auditlog"
)

func newUndoCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "undo <batch-id>",
		Short: "Delete every transaction of an import batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, repoDir)
			if err != nil {
				return err
			}
			defer a.Close()

			batchID := args[0]
			deleted, err := a.store.UndoBatch(cmd.Context(), a.tenant, batchID)
			if err != nil {
				return err
			}
			a.log.WithField("batch", batchID).WithField("deleted", deleted).Info("import undone")
			a.audit(auditlog.Entry{
				Timestamp: now(),
				Action:    auditlog.ActionUndo,
				BatchID:   batchID,
				Details:   fmt.Sprintf("deleted=%d", deleted),
			})

			fmt.Fprintf(cmd.OutOrStdout(), "Undid batch %s: %d transactions deleted\n", batchID, deleted)
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir)
	return cmd
}
