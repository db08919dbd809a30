package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rebeliceyang/lazyfilter/internal/export"
	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/filtering"
	"github.com/rebeliceyang/lazyfilter/internal/history"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/nlquery"
	"github.com/rebeliceyang/lazyfilter/internal/presets"
	"github.com/rebeliceyang/lazyfilter/internal/source"
	"github.com/rebeliceyang/lazyfilter/internal/ui/components"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type filterOptions struct {
	csv         []string
	sqlite      string
	table       string
	pgTable     string
	where       []string
	whereNot    []string
	contains    []string
	preset      string
	nlFile      string
	match       string
	savePreset  string
	exportPath  string
	copy        bool
	limit       int
	themeName   string
	showFilters bool
}

func newFilterCommand(a *app) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Load rows and print the ones matching the filters",
		Long: `Load rows from one or more sources and apply filters.

Examples:
  # Open issues tagged Bug or Docs
  lazyfilter filter --csv issues.csv --where status=Open --where tags=Bug,Docs

  # Everything not completed whose title mentions "crash", either condition
  lazyfilter filter --csv issues.csv --where-not status=Completed --contains title=crash --match any

  # Apply filters produced by a natural-language resolver
  lazyfilter filter --sqlite grid.db --table issues --nl resolved.json

  # Save the result as a preset and export the rows
  lazyfilter filter --csv issues.csv --where status=Open --save-preset "Open work" --export open.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFilter(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.csv, "csv", nil, "CSV file to load (repeatable)")
	f.StringVar(&opts.sqlite, "sqlite", "", "SQLite database to load from (requires --table)")
	f.StringVar(&opts.table, "table", "", "SQLite table name")
	f.StringVar(&opts.pgTable, "pg-table", "", "PostgreSQL table to load, as [schema.]table")
	f.StringArrayVar(&opts.where, "where", nil, "column=value[,value] filter (repeatable)")
	f.StringArrayVar(&opts.whereNot, "where-not", nil, "negated column=value[,value] filter (repeatable)")
	f.StringArrayVar(&opts.contains, "contains", nil, "column=text substring filter (repeatable)")
	f.StringVar(&opts.preset, "preset", "", "start from a saved preset")
	f.StringVar(&opts.nlFile, "nl", "", "resolver JSON file with filters to apply (- for stdin)")
	f.StringVar(&opts.match, "match", "", "match type: all or any")
	f.StringVar(&opts.savePreset, "save-preset", "", "save the resulting filters as a preset")
	f.StringVar(&opts.exportPath, "export", "", "export visible rows to a .csv or .json file")
	f.BoolVar(&opts.copy, "copy", false, "copy visible rows to the clipboard as CSV")
	f.IntVarP(&opts.limit, "limit", "n", 50, "rows to print (0 for all)")
	f.StringVar(&opts.themeName, "theme", "default", "color theme (default, catppuccin)")
	f.BoolVar(&opts.showFilters, "show-filters", true, "print the applied filters")

	return cmd
}

func (a *app) runFilter(cmd *cobra.Command, opts *filterOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	th := theme.GetTheme(opts.themeName)
	start := time.Now()

	loaders, sources, err := a.loaders(opts)
	if err != nil {
		return err
	}

	table, err := source.LoadAll(ctx, loaders...)
	if err != nil {
		return fmt.Errorf("failed to load rows: %w", err)
	}
	a.logger.Info("rows loaded", "sources", strings.Join(sources, ","), "rows", len(table.Records))

	policy, err := filter.ParseMultiValuePolicy(a.cfg.Filter.MultiValueDefault)
	if err != nil {
		return err
	}

	store := filtering.New(table.Records, source.DeriveCategories(table, a.cfg.Data.TextColumns), filtering.Options[models.Record]{
		RowID:            source.RecordID,
		RowKey:           filter.RecordSignature,
		Predicate:        source.RecordPredicate,
		Text:             source.RecordText,
		MatchType:        models.MatchType(a.cfg.Filter.DefaultMatchType),
		MultiValuePolicy: policy,
		Memoize:          a.cfg.Filter.Memoize,
		Logger:           a.logger,
	})

	var manager *presets.Manager
	if opts.preset != "" || opts.savePreset != "" {
		if manager, err = a.presetManager(); err != nil {
			return err
		}
	}

	if opts.preset != "" {
		p, err := manager.GetByName(opts.preset)
		if err != nil {
			return err
		}
		if err := store.ReplaceFilters(p.Filters, p.MatchType); err != nil {
			return fmt.Errorf("failed to apply preset: %w", err)
		}
		if err := manager.RecordUsage(p.ID); err != nil {
			a.logger.Warn("failed to record preset usage", "preset", p.Name, "error", err.Error())
		}
	}

	matchType := store.MatchType()
	if opts.match != "" {
		matchType = models.MatchType(strings.ToLower(opts.match))
	}

	if opts.nlFile != "" {
		resp, err := readResolverResponse(cmd.InOrStdin(), opts.nlFile)
		if err != nil {
			return err
		}
		if opts.match != "" {
			resp.MatchType = matchType
		}
		if err := a.applyResolved(cmd, th, resp, store); err != nil {
			return err
		}
		matchType = store.MatchType()
	}

	resp, err := flagFilters(opts)
	if err != nil {
		return err
	}
	resp.MatchType = matchType
	if err := a.applyResolved(cmd, th, resp, store); err != nil {
		return err
	}

	visible := store.FilteredRows()

	if opts.showFilters {
		fmt.Fprintln(out, components.RenderChips(store.Filters(), store.MatchType(), th))
		fmt.Fprintln(out)
	}
	tv := components.NewTableView(th)
	tv.MaxRows = opts.limit
	tv.SetRecords(table.Columns, visible, store.TotalRowCount(), a.cfg.Data.ListDelimiter)
	fmt.Fprintln(out, tv.View())

	if stats, ok := store.CacheStats(); ok {
		a.logger.Debug("filter cache", "rows", stats.Rows, "entries", stats.Entries, "hits", stats.Hits, "misses", stats.Misses)
	}

	if opts.savePreset != "" {
		p, err := manager.Add(opts.savePreset, "", store.Filters(), store.MatchType(), nil)
		if err != nil {
			return fmt.Errorf("failed to save preset: %w", err)
		}
		fmt.Fprintln(out, components.SuccessMessage(th, fmt.Sprintf("Saved preset %q", p.Name)))
	}

	if opts.exportPath != "" {
		if err := a.exportRows(opts.exportPath, table.Columns, visible); err != nil {
			return err
		}
		fmt.Fprintln(out, components.SuccessMessage(th, fmt.Sprintf("Exported %d rows to %s", len(visible), opts.exportPath)))
	}

	if opts.copy {
		if err := export.CopyCSV(table.Columns, visible, a.cfg.Data.ListDelimiter); err != nil {
			return err
		}
		fmt.Fprintln(out, components.SuccessMessage(th, fmt.Sprintf("Copied %d rows to clipboard", len(visible))))
	}

	a.recordHistory(ctx, history.Entry{
		Source:      strings.Join(sources, ","),
		Query:       commandLine(cmd),
		Filters:     summarize(store.Filters()),
		MatchType:   string(store.MatchType()),
		VisibleRows: len(visible),
		TotalRows:   store.TotalRowCount(),
		Duration:    time.Since(start),
	})

	return nil
}

func (a *app) loaders(opts *filterOptions) ([]source.Loader, []string, error) {
	var loaders []source.Loader
	var names []string
	delim, maxRows := a.cfg.Data.ListDelimiter, a.cfg.Data.MaxRows

	for _, path := range opts.csv {
		loaders = append(loaders, source.LoadCSV(path, delim, maxRows))
		names = append(names, "csv:"+filepath.Base(path))
	}

	if opts.sqlite != "" {
		if opts.table == "" {
			return nil, nil, fmt.Errorf("--sqlite requires --table")
		}
		loaders = append(loaders, source.LoadSQLite(opts.sqlite, opts.table, delim, maxRows))
		names = append(names, "sqlite:"+filepath.Base(opts.sqlite)+"/"+opts.table)
	}

	if opts.pgTable != "" {
		schema, table := "public", opts.pgTable
		if s, t, ok := strings.Cut(opts.pgTable, "."); ok {
			schema, table = s, t
		}
		loaders = append(loaders, source.LoadPostgres(a.cfg.Postgres, schema, table, delim, maxRows))
		names = append(names, "pg:"+schema+"."+table)
	}

	if len(loaders) == 0 {
		return nil, nil, fmt.Errorf("no data source given: use --csv, --sqlite or --pg-table")
	}
	return loaders, names, nil
}

// flagFilters turns --where, --where-not and --contains into resolver instructions
func flagFilters(opts *filterOptions) (*nlquery.Response, error) {
	resp := &nlquery.Response{}

	add := func(args []string, negate, substring bool) error {
		for _, arg := range args {
			column, value, ok := strings.Cut(arg, "=")
			if !ok || strings.TrimSpace(column) == "" {
				return fmt.Errorf("invalid filter %q: expected column=value", arg)
			}
			f := nlquery.Filter{
				ColumnName: strings.TrimSpace(column),
				Values:     strings.Split(value, ","),
				IsNegation: negate,
			}
			if substring {
				f.ColumnType = string(models.SelectionText)
				f.Values = []string{value}
			}
			resp.Filters = append(resp.Filters, f)
		}
		return nil
	}

	if err := add(opts.where, false, false); err != nil {
		return nil, err
	}
	if err := add(opts.whereNot, true, false); err != nil {
		return nil, err
	}
	if err := add(opts.contains, false, true); err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *app) applyResolved(cmd *cobra.Command, th theme.Theme, resp *nlquery.Response, store *filtering.Store[models.Record]) error {
	_, warnings, err := nlquery.Apply(resp, store)
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), components.WarningMessage(th, w))
		a.logger.Warn("filter instruction skipped", "reason", w)
	}
	return err
}

func readResolverResponse(stdin io.Reader, path string) (*nlquery.Response, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read resolver response: %w", err)
	}
	return nlquery.Decode(data)
}

func (a *app) presetManager() (*presets.Manager, error) {
	dir, err := a.cfg.PresetsDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate presets directory: %w", err)
	}
	return presets.NewManager(dir)
}

func (a *app) exportRows(path string, columns []string, rows []models.Record) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return export.ExportRecordsToJSON(path, columns, rows)
	}
	return export.ExportRecordsToCSV(path, columns, rows, a.cfg.Data.ListDelimiter)
}

func (a *app) recordHistory(ctx context.Context, entry history.Entry) {
	if !a.cfg.History.Enabled {
		return
	}
	path, err := a.cfg.HistoryPath()
	if err != nil {
		a.logger.Warn("history disabled", "error", err.Error())
		return
	}
	store, err := history.NewStore(path)
	if err != nil {
		a.logger.Warn("failed to open history", "path", path, "error", err.Error())
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.Add(ctx, entry); err != nil {
		a.logger.Warn("failed to record history", "error", err.Error())
	}
}

func summarize(filters []models.AppliedFilter) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.Describe()
	}
	return strings.Join(parts, "; ")
}

// commandLine renders the flags that were set, for the history log
func commandLine(cmd *cobra.Command) string {
	var parts []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			for _, v := range sv.GetSlice() {
				parts = append(parts, fmt.Sprintf("--%s=%s", f.Name, v))
			}
			return
		}
		parts = append(parts, fmt.Sprintf("--%s=%s", f.Name, f.Value.String()))
	})
	return strings.Join(parts, " ")
}
