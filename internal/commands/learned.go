package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/auditlog"
)

func newLearnedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learned",
		Short: "Inspect or forget learned classifications",
	}
	cmd.AddCommand(newLearnedListCommand(), newLearnedForgetCommand())
	return cmd
}

func newLearnedListCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List learned classifications, most used first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, repoDir)
			if err != nil {
				return err
			}
			defer a.Close()

			dir, err := a.directory()
			if err != nil {
				return err
			}
			list, err := a.store.ListLearned(cmd.Context(), a.tenant)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "Nothing learned yet.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DESCRIPTION\tACCOUNT\tPROJECT\tFUND SOURCE\tUSES")
			for _, l := range list {
				account := l.AccountID
				if acct, ok := dir.Account(l.AccountID); ok {
					account = acct.Code + " " + acct.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
					l.Description, account, orDash(l.ProjectID), orDash(l.FundSourceID), l.UsageCount)
			}
			return tw.Flush()
		},
	}

	addRepoFlag(cmd, &repoDir)
	return cmd
}

func newLearnedForgetCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "forget <description>",
		Short: "Forget the learned classification for a description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, repoDir)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.ForgetLearned(cmd.Context(), a.tenant, args[0]); err != nil {
				return err
			}
			a.audit(auditlog.Entry{
				Timestamp: now(),
				Action:    auditlog.ActionForget,
				Details:   args[0],
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Forgot %q\n", args[0])
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir)
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
