package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newBatchesCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List import batches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, repoDir)
			if err != nil {
				return err
			}
			defer a.Close()

			batches, err := a.store.ListBatches(cmd.Context(), a.tenant)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(batches) == 0 {
				fmt.Fprintln(out, "No import batches.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "BATCH\tCREATED\tFILE\tTOTAL\tSUCCESS\tDUPLICATE\tFAILED\tSTATUS")
			for _, b := range batches {
				status := "active"
				if b.Undone() {
					status = "undone " + b.UndoneAt.Local().Format(time.DateTime)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					b.ID, b.CreatedAt.Local().Format(time.DateTime), b.FileName,
					b.Total, b.Success, b.Duplicate, b.Failed, status)
			}
			return tw.Flush()
		},
	}

	addRepoFlag(cmd, &repoDir)
	return cmd
}
