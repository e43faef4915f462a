// Package classify suggests an account for each parsed bank row: a learned
// mapping first, then the keyword rules, then the tenant's default account.
package classify

import (
	"context"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/bankbook-dev/bankbook/internal/accounts"
	"github.com/bankbook-dev/bankbook/internal/model"
)

// Directory is the read side of a tenant's accounts, projects and fund sources.
type Directory interface {
	Account(id string) (model.Account, bool)
	ByCode(accountType model.AccountType, code string) (model.Account, bool)
	ByNameContains(accountType model.AccountType, name string) (model.Account, bool)
	Project(id string) (model.Project, bool)
	FundSource(id string) (model.FundSource, bool)
}

// Learned is a snapshot of a tenant's learned classifications keyed by
// normalised description.
type Learned map[string]model.LearnedClassification

// Options tune a Classifier. Zero values select the defaults.
type Options struct {
	Rules              []Rule
	DefaultIncomeCode  string
	DefaultExpenseCode string
	Workers            int
}

// Classifier is safe for concurrent use; it never mutates its inputs.
type Classifier struct {
	dir         Directory
	learned     Learned
	rules       []Rule
	incomeCode  string
	expenseCode string
	workers     int
}

// New creates a Classifier over a directory and a learned snapshot.
func New(dir Directory, learned Learned, opts Options) *Classifier {
	c := &Classifier{
		dir:         dir,
		learned:     learned,
		rules:       opts.Rules,
		incomeCode:  opts.DefaultIncomeCode,
		expenseCode: opts.DefaultExpenseCode,
		workers:     opts.Workers,
	}
	if c.rules == nil {
		c.rules = DefaultRules
	}
	if c.incomeCode == "" {
		c.incomeCode = accounts.DefaultIncomeCode
	}
	if c.expenseCode == "" {
		c.expenseCode = accounts.DefaultExpenseCode
	}
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// ClassifyAll classifies rows in parallel, preserving order.
func (c *Classifier) ClassifyAll(ctx context.Context, txns []model.ParsedTransaction) ([]model.ClassifiedTransaction, error) {
	out := make([]model.ClassifiedTransaction, len(txns))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range txns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = c.Classify(txns[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Classify resolves one row.
func (c *Classifier) Classify(p model.ParsedTransaction) model.ClassifiedTransaction {
	ct := model.ClassifiedTransaction{
		ParsedTransaction: p,
		Type:              p.Type(),
		Amount:            p.Amount(),
	}
	norm := Normalize(p.Description)

	if c.applyLearned(&ct, norm) {
		return ct
	}
	if c.applyRules(&ct, norm) {
		return ct
	}
	c.applyDefault(&ct)
	return ct
}

func (c *Classifier) applyLearned(ct *model.ClassifiedTransaction, norm string) bool {
	if norm == "" {
		return false
	}
	l, ok := c.learned[norm]
	if !ok {
		return false
	}
	acct, ok := c.dir.Account(l.AccountID)
	if !ok {
		return false
	}

	ct.AccountID = acct.ID
	ct.AccountName = acct.Name
	ct.Confidence = tierFromScore(l.Confidence)
	ct.Source = model.SourceLearned
	ct.IsLearned = true
	if p, ok := c.dir.Project(l.ProjectID); ok && l.ProjectID != "" {
		ct.ProjectID = p.ID
		ct.ProjectName = p.Name
	}
	if f, ok := c.dir.FundSource(l.FundSourceID); ok && l.FundSourceID != "" {
		ct.FundSourceID = f.ID
		ct.FundSourceName = f.Name
	}
	return true
}

func tierFromScore(score float64) model.Confidence {
	switch {
	case score >= 0.8:
		return model.ConfidenceHigh
	case score >= 0.5:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func (c *Classifier) applyRules(ct *model.ClassifiedTransaction, norm string) bool {
	rule, conf, ok := c.match(ct.Type, ct.Description, norm)
	if !ok {
		return false
	}

	acctType := ct.Type.AccountType()
	acct, found := c.dir.ByCode(acctType, rule.AccountCode)
	if !found {
		acct, found = c.dir.ByNameContains(acctType, rule.AccountName)
	}
	if !found {
		return false
	}

	ct.AccountID = acct.ID
	ct.AccountName = acct.Name
	ct.Confidence = conf
	ct.Source = model.SourcePattern
	return true
}

// match returns the first rule of the row's direction with a keyword found in
// the normalised or raw description.
func (c *Classifier) match(typ model.TransactionType, raw, norm string) (Rule, model.Confidence, bool) {
	rawLower := strings.ToLower(raw)
	rawTrim := strings.TrimSpace(raw)
	for _, rule := range c.rules {
		if rule.Type != typ {
			continue
		}
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(kw)
			if kw == "" {
				continue
			}
			inNorm := strings.Contains(norm, kw)
			if !inNorm && !strings.Contains(rawLower, kw) {
				continue
			}
			switch {
			case strings.EqualFold(rawTrim, kw):
				return rule, model.ConfidenceHigh, true
			case inNorm && utf8.RuneCountInString(kw) >= 3:
				return rule, model.ConfidenceMedium, true
			default:
				return rule, model.ConfidenceLow, true
			}
		}
	}
	return Rule{}, "", false
}

func (c *Classifier) applyDefault(ct *model.ClassifiedTransaction) {
	code := c.expenseCode
	if ct.Type == model.TypeIncome {
		code = c.incomeCode
	}
	if acct, ok := c.dir.ByCode(ct.Type.AccountType(), code); ok {
		ct.AccountID = acct.ID
		ct.AccountName = acct.Name
	}
	ct.Confidence = model.ConfidenceLow
	ct.Source = model.SourceDefault
}
