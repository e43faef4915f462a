package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/auditlog"
	"github.com/bankbook-dev/bankbook/internal/classify"
	"github.com/bankbook-dev/bankbook/internal/importer"
	"github.com/bankbook-dev/bankbook/internal/importflow"
	"github.com/bankbook-dev/bankbook/internal/template"
)

type importFlags struct {
	repoDir    string
	all        bool
	dryRun     bool
	learn      bool
	templateID string
	mappings   []string
	deselect   []int
	accounts   []string
	projects   []string
	funds      []string
}

func newImportCommand() *cobra.Command {
	var f importFlags

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank statement exports into the ledger",
		Long: `Import reads each bank export, detects the bank layout, suggests an
account for every row and commits the selected rows as one batch.

Row options (--deselect, --account, --project, --fund) use the row numbers
printed in the preview and apply to every file imported in one run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, f, args)
		},
	}

	addRepoFlag(cmd, &f.repoDir)
	cmd.Flags().BoolVar(&f.all, "all", false, "import every supported file in import/ and move it to import/processed/")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "preview the classification without committing")
	cmd.Flags().BoolVar(&f.learn, "learn", true, "remember confirmed accounts for future imports (default from config)")
	cmd.Flags().StringVar(&f.templateID, "template", "", "use this bank template instead of detecting one")
	cmd.Flags().StringArrayVar(&f.mappings, "mapping", nil, "map a field to a column, e.g. description=적요")
	cmd.Flags().IntSliceVar(&f.deselect, "deselect", nil, "rows to leave out")
	cmd.Flags().StringArrayVar(&f.accounts, "account", nil, "set a row's account, e.g. 3=acc_501")
	cmd.Flags().StringArrayVar(&f.projects, "project", nil, "set a row's project, e.g. 3=prj_edu (empty clears)")
	cmd.Flags().StringArrayVar(&f.funds, "fund", nil, "set a row's fund source, e.g. 3=fs_grant (empty clears)")

	return cmd
}

func runImport(cmd *cobra.Command, f importFlags, args []string) error {
	a, err := openApp(cmd, f.repoDir)
	if err != nil {
		return err
	}
	defer a.Close()

	dir, err := a.directory()
	if err != nil {
		return err
	}

	reg := importer.DefaultRegistry()
	type source struct {
		path      string
		fromInbox bool
	}
	var sources []source
	for _, p := range args {
		sources = append(sources, source{path: p})
	}
	if f.all {
		files, err := importer.Scan(a.root, reg)
		if err != nil {
			return err
		}
		for _, fi := range files {
			sources = append(sources, source{path: fi.Path, fromInbox: true})
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("no files to import")
	}

	learn := a.cfg.Import.Learn
	if cmd.Flags().Changed("learn") {
		learn = f.learn
	}

	edits, err := parseEdits(f)
	if err != nil {
		return err
	}

	opts := importflow.Options{
		Tenant:    a.tenant,
		Registry:  reg,
		Directory: dir,
		Ledger:    a.store,
		Learning:  a.store,
		Classify: classify.Options{
			DefaultIncomeCode:  a.cfg.Import.DefaultIncomeCode,
			DefaultExpenseCode: a.cfg.Import.DefaultExpenseCode,
			Workers:            a.cfg.Import.Workers,
		},
		AllowDuplicates: !a.cfg.Import.SkipDuplicates,
		Logger:          a.log,
	}

	out := cmd.OutOrStdout()
	for _, src := range sources {
		s := importflow.NewSession(opts)
		if err := importFile(cmd.Context(), out, a, s, src.path, f, edits, learn); err != nil {
			return err
		}
		if src.fromInbox && !f.dryRun {
			if err := importer.MarkProcessed(a.root, filepath.Base(src.path)); err != nil {
				return err
			}
		}
	}
	return nil
}

func importFile(ctx context.Context, out io.Writer, a *app, s *importflow.Session, path string, f importFlags, edits map[int]importflow.Override, learn bool) error {
	name := filepath.Base(path)
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	if err := s.Upload(ctx, name, file); err != nil {
		return err
	}
	stats := s.ExtractStats()
	a.audit(auditlog.Entry{
		Timestamp: now(),
		Action:    auditlog.ActionUpload,
		File:      name,
		Details:   fmt.Sprintf("template=%s rows=%d dropped=%d", s.Detection().Template.ID, stats.Retained, stats.Dropped),
	})

	if err := applyMapping(s, f); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s template, %d rows (%d skipped)\n",
		name, s.Detection().Template.Name, s.ExtractStats().Retained, s.ExtractStats().Dropped)

	if err := s.Classify(ctx); err != nil {
		return err
	}
	for _, row := range f.deselect {
		if err := s.Deselect(row); err != nil {
			return err
		}
	}
	for row, o := range edits {
		if err := s.Edit(row, o); err != nil {
			return err
		}
	}

	printRows(out, s.Rows())
	printSummary(out, s.Summary())

	if f.dryRun {
		fmt.Fprintln(out, "Dry run: nothing committed.")
		return nil
	}

	batch, err := s.Confirm(ctx, importflow.ConfirmOptions{Learn: learn})
	if err != nil {
		if batch != nil {
			fmt.Fprintf(out, "Batch %s committed %d rows but was not saved; run 'bankbook undo %s' to remove them\n",
				batch.ID, batch.Success, batch.ID)
		}
		return err
	}
	fmt.Fprintf(out, "Batch %s: %d imported, %d duplicate, %d failed\n",
		batch.ID, batch.Success, batch.Duplicate, batch.Failed)
	for _, e := range batch.Errors {
		fmt.Fprintf(out, "  row %d: %s\n", e.RowIndex, e.Error)
	}

	a.audit(auditlog.Entry{
		Timestamp: batch.CreatedAt,
		Action:    auditlog.ActionConfirm,
		File:      name,
		BatchID:   batch.ID,
		Details:   fmt.Sprintf("success=%d duplicate=%d failed=%d", batch.Success, batch.Duplicate, batch.Failed),
	})
	a.log.WithFields(logrus.Fields{"file": name, "batch": batch.ID}).Debug("import finished")
	return nil
}

func applyMapping(s *importflow.Session, f importFlags) error {
	if f.templateID == "" && len(f.mappings) == 0 {
		return nil
	}

	m := s.Mapping()
	if f.templateID != "" {
		t, ok := template.Lookup(f.templateID)
		if !ok {
			return fmt.Errorf("unknown template %q", f.templateID)
		}
		m = template.MapColumns(t, s.Headers())
	}
	for _, a := range f.mappings {
		key, header, err := splitAssignment(a)
		if err != nil {
			return fmt.Errorf("--mapping: %w", err)
		}
		field, err := template.ParseField(key)
		if err != nil {
			return fmt.Errorf("--mapping: %w", err)
		}
		m.Set(field, header)
	}
	return s.SetMapping(m)
}

func parseEdits(f importFlags) (map[int]importflow.Override, error) {
	edits := make(map[int]importflow.Override)
	apply := func(flag string, assignments []string, set func(o *importflow.Override, v *string)) error {
		for _, a := range assignments {
			key, value, err := splitAssignment(a)
			if err != nil {
				return fmt.Errorf("--%s: %w", flag, err)
			}
			row, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("--%s: invalid row %q", flag, key)
			}
			o := edits[row]
			set(&o, &value)
			edits[row] = o
		}
		return nil
	}

	if err := apply("account", f.accounts, func(o *importflow.Override, v *string) { o.AccountID = v }); err != nil {
		return nil, err
	}
	if err := apply("project", f.projects, func(o *importflow.Override, v *string) { o.ProjectID = v }); err != nil {
		return nil, err
	}
	if err := apply("fund", f.funds, func(o *importflow.Override, v *string) { o.FundSourceID = v }); err != nil {
		return nil, err
	}
	return edits, nil
}

func splitAssignment(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), nil
}

func printRows(out io.Writer, rows []importflow.Row) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tDATE\tTYPE\tAMOUNT\tDESCRIPTION\tACCOUNT\tCONFIDENCE\tSOURCE\t")
	for _, r := range rows {
		mark := ""
		if !r.Selected {
			mark = "skip"
		} else if r.Edited {
			mark = "edited"
		}
		account := r.AccountName
		if account == "" {
			account = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RowIndex, r.Date, r.Type, r.Amount.String(), r.Description,
			account, r.Confidence, r.Source, mark)
	}
	tw.Flush()
}

func printSummary(out io.Writer, s classify.Summary) {
	fmt.Fprintf(out, "%d rows: %d income (%s), %d expense (%s); confidence high %d, medium %d, low %d; %d learned\n",
		s.Total, s.Income, s.IncomeTotal.String(), s.Expense, s.ExpenseTotal.String(),
		s.High, s.Medium, s.Low, s.Learned)
}
