package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/wbrown/janus-minicon/datalog/annotations"
	"github.com/wbrown/janus-minicon/datalog/minicon"
	"github.com/wbrown/janus-minicon/datalog/parser"
	"github.com/wbrown/janus-minicon/datalog/preference"
	"github.com/wbrown/janus-minicon/datalog/query"
	"github.com/wbrown/janus-minicon/datalog/sqlgen"
	"github.com/wbrown/janus-minicon/datalog/storage"
	"github.com/wbrown/janus-minicon/datalog/testcase"
)

// ErrUnexpectedRewritings is returned when a test case lists expected
// rewritings and the run produced different ones.
var ErrUnexpectedRewritings = errors.New("rewritings differ from the expected ones")

type rewriteOptions struct {
	casesPath string
	caseID    string
	queryText string
	viewTexts []string

	prefsPath string
	dbPath    string
	prefSet   string

	strategy        string
	limit           int
	removeRedundant bool
	sql             bool
}

// problem is a parsed query with its prepared views
type problem struct {
	query    *query.Query
	views    []*query.Query
	ranks    *preference.Table
	expected []string
}

// NewRewriteCommand creates the rewrite command.
func NewRewriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &rewriteOptions{}

	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Rewrite a query over views",
		Long: `Rewrite a conjunctive query over a set of views.

The query and views come either from a test-case file (--cases, --id) or
from the command line (--query, --view). Preferences come from the case,
a preference file (--prefs) or a preference database (--db); with
preferences the ranked strategy is used unless --strategy says otherwise.`,
		Example: `  minicon rewrite --cases cases.yaml --id 1
  minicon rewrite --query 'Q(x) :- e1(x,y), e2(y)' --view 'V(a) :- e1(a,b), e2(b)'
  minicon rewrite --cases cases.yaml --id 3 --db prefs.db --pref-set 1 --limit 2 --sql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.casesPath, "cases", "", "test-case file (.yaml or .xml)")
	cmd.Flags().StringVar(&opts.caseID, "id", "", "id of the case to run")
	cmd.Flags().StringVarP(&opts.queryText, "query", "q", "", "query rule")
	cmd.Flags().StringArrayVar(&opts.viewTexts, "view", nil, "view rule (repeatable)")
	cmd.Flags().StringVar(&opts.prefsPath, "prefs", "", "preference file (.yaml or .xml)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "preference database directory")
	cmd.Flags().StringVar(&opts.prefSet, "pref-set", "", "preference set id")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "exhaustive or ranked (default: ranked when preferences are given)")
	cmd.Flags().IntVar(&opts.limit, "limit", minicon.Unbounded, "maximum number of ranked rewritings (-1 = all, other negatives are rejected)")
	cmd.Flags().BoolVar(&opts.removeRedundant, "remove-redundant", false, "fold redundant view literals")
	cmd.Flags().BoolVar(&opts.sql, "sql", false, "print the SQL of every rewriting")

	return cmd
}

func runRewrite(rootOpts *RootOptions, opts *rewriteOptions, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	p, err := loadProblem(opts)
	if err != nil {
		return err
	}

	ranks, err := resolveRanks(opts, p.ranks)
	if err != nil {
		return err
	}
	p.ranks = ranks

	strategy := minicon.StrategyExhaustive
	if ranks != nil {
		strategy = minicon.StrategyRanked
	}
	if opts.strategy != "" {
		if strategy, err = minicon.ParseStrategy(opts.strategy); err != nil {
			return err
		}
	}

	var handler annotations.Handler
	if rootOpts.Verbose {
		handler = eventHandler(cmd.ErrOrStderr())
	}

	rewriter := minicon.NewRewriter(minicon.Options{
		Strategy:           strategy,
		Budget:             opts.limit,
		RemoveRedundancies: opts.removeRedundant,
		Workers:            rootOpts.Workers,
	})

	printProblem(out, p, strategy)

	start := time.Now()
	var res *minicon.Result
	if ranks != nil {
		res, err = rewriter.Rewrite(minicon.NewContext(handler), p.query, p.views, ranks)
	} else {
		res, err = rewriter.Rewrite(minicon.NewContext(handler), p.query, p.views, nil)
	}
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	tf := minicon.NewTableFormatter()
	if rootOpts.Verbose {
		fmt.Fprintln(out)
		fmt.Fprintln(out, tf.FormatMCDs(res.MCDs))
	}

	fmt.Fprintf(out, "MCDs: %d\n", len(res.MCDs))
	fmt.Fprintf(out, "Rewritings: %d\n", len(res.Rewritings))
	for _, rw := range res.Rewritings {
		fmt.Fprintf(out, "  %s\n", rw)
		if !opts.sql {
			continue
		}
		sql, err := sqlgen.ToSQL(rw.Rewritten())
		if err != nil {
			return errors.Wrapf(err, "translating %s", rw)
		}
		for _, line := range strings.Split(sql, "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	if rootOpts.Verbose {
		fmt.Fprintln(out)
		fmt.Fprintln(out, tf.FormatRewritings(res.Rewritings))
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "_%d rewritings in %v_\n", len(res.Rewritings), elapsed)

	if p.expected == nil {
		return nil
	}
	if !sameRewritings(p.expected, res.Rewritings) {
		fmt.Fprintln(out, "Expected: mismatch")
		for _, e := range p.expected {
			fmt.Fprintf(out, "  %s\n", e)
		}
		return ErrUnexpectedRewritings
	}
	fmt.Fprintln(out, "Expected: ok")
	return nil
}

// loadProblem reads the query and views from a case file or the flags
func loadProblem(opts *rewriteOptions) (*problem, error) {
	switch {
	case opts.casesPath != "" && opts.queryText != "":
		return nil, errors.New("--cases and --query are mutually exclusive")

	case opts.casesPath != "":
		suite, err := testcase.LoadFile(opts.casesPath)
		if err != nil {
			return nil, err
		}
		if opts.caseID == "" {
			return nil, errors.WithHintf(errors.New("--id is required with --cases"),
				"available cases: %s", strings.Join(suite.IDs(), ", "))
		}
		c, err := suite.Find(opts.caseID)
		if err != nil {
			return nil, err
		}
		q, views, err := c.Parse(testcase.CaseViewOptions())
		if err != nil {
			return nil, err
		}
		p := &problem{query: q, views: views, expected: c.Expected}
		if len(c.Preferences) > 0 {
			p.ranks = preference.FromMap(c.ID, c.Preferences)
		}
		return p, nil

	case opts.queryText != "":
		if len(opts.viewTexts) == 0 {
			return nil, errors.New("--query needs at least one --view")
		}
		q, err := parser.ParseQuery(opts.queryText)
		if err != nil {
			return nil, errors.Wrap(err, "query")
		}
		views, err := parser.ParseViews(opts.viewTexts)
		if err != nil {
			return nil, err
		}
		return &problem{query: q, views: parser.PrepareViews(views, parser.DefaultViewOptions())}, nil
	}
	return nil, errors.New("either --cases or --query is required")
}

// resolveRanks picks the preference table for the run. A file or database
// given on the command line overrides the preferences of the case.
func resolveRanks(opts *rewriteOptions, inline *preference.Table) (*preference.Table, error) {
	switch {
	case opts.prefsPath != "" && opts.dbPath != "":
		return nil, errors.New("--prefs and --db are mutually exclusive")

	case opts.prefsPath != "":
		tables, err := testcase.LoadPreferences(opts.prefsPath)
		if err != nil {
			return nil, err
		}
		return selectTable(tables, opts.prefSet)

	case opts.dbPath != "":
		if opts.prefSet == "" {
			return nil, errors.New("--pref-set is required with --db")
		}
		store, err := storage.Open(opts.dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Table(opts.prefSet)
	}
	return inline, nil
}

// selectTable returns the table with the given id, or the only table when
// id is empty.
func selectTable(tables []*preference.Table, id string) (*preference.Table, error) {
	if id == "" {
		if len(tables) == 1 {
			return tables[0], nil
		}
		ids := make([]string, len(tables))
		for i, t := range tables {
			ids[i] = t.ID
		}
		return nil, errors.WithHintf(errors.New("--pref-set is required"),
			"the file holds sets: %s", strings.Join(ids, ", "))
	}
	for _, t := range tables {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, errors.Wrapf(preference.ErrNoPreferenceSet, "%q", id)
}

// eventHandler traces to the console when w is the process stderr and to w
// otherwise.
func eventHandler(w io.Writer) annotations.Handler {
	if f, ok := w.(*os.File); ok && f == os.Stderr {
		return annotations.ConsoleHandler()
	}
	return annotations.WriterHandler(w)
}

func printProblem(w io.Writer, p *problem, strategy minicon.Strategy) {
	fmt.Fprintf(w, "Query: %s\n", p.query)
	fmt.Fprintln(w, "Views:")
	for _, v := range p.views {
		fmt.Fprintf(w, "  %s\n", v)
	}
	fmt.Fprintf(w, "Strategy: %s\n", strategy)
	if p.ranks != nil {
		fmt.Fprintf(w, "Preferences: %s\n", p.ranks)
	}
}

func sameRewritings(expected []string, rws []*minicon.Rewriting) bool {
	if len(expected) != len(rws) {
		return false
	}
	for i, rw := range rws {
		if rw.String() != expected[i] {
			return false
		}
	}
	return true
}
