package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/auditlog"
)

func newHistoryCommand() *cobra.Command {
	var (
		repoDir string
		batchID string
		action  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the import log for this repo's tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch action {
			case "", auditlog.ActionUpload, auditlog.ActionConfirm, auditlog.ActionUndo, auditlog.ActionForget:
			default:
				return fmt.Errorf("unknown action %q", action)
			}

			a, err := openApp(cmd, repoDir)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := auditlog.History(a.root, auditlog.Filter{
				Tenant:  a.tenant,
				BatchID: batchID,
				Action:  action,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No import history.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTION\tFILE\tBATCH\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Local().Format(time.DateTime), e.Action, e.File, e.BatchID, e.Details)
			}
			return tw.Flush()
		},
	}

	addRepoFlag(cmd, &repoDir)
	cmd.Flags().StringVar(&batchID, "batch", "", "only entries for this batch")
	cmd.Flags().StringVar(&action, "action", "", "only entries with this action (upload, confirm, undo, forget)")
	return cmd
}
