package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/template"
)

func newTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the bank layouts recognised on import, in detection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDATE\tDESCRIPTION\tDEPOSIT\tWITHDRAWAL")
			for _, t := range template.Catalog() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name,
					strings.Join(t.Synonyms[template.FieldDate], "|"),
					strings.Join(t.Synonyms[template.FieldDescription], "|"),
					strings.Join(t.Synonyms[template.FieldDeposit], "|"),
					strings.Join(t.Synonyms[template.FieldWithdrawal], "|"))
			}
			return tw.Flush()
		},
	}
}
