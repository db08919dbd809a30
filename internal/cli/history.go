package cli

import (
	"fmt"
	"strconv"

	"github.com/rebeliceyang/lazyfilter/internal/history"
	"github.com/rebeliceyang/lazyfilter/internal/ui/components"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
	"github.com/spf13/cobra"
)

func newHistoryCommand(a *app) *cobra.Command {
	var search string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent filter runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.cfg.HistoryPath()
			if err != nil {
				return err
			}
			store, err := history.NewStore(path)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			var entries []history.Entry
			if search != "" {
				entries, err = store.Search(cmd.Context(), search, limit)
			} else {
				entries, err = store.GetRecent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					e.ExecutedAt.Local().Format("2006-01-02 15:04:05"),
					e.Source,
					e.Filters,
					e.MatchType,
					fmt.Sprintf("%d/%d", e.VisibleRows, e.TotalRows),
					strconv.FormatInt(e.Duration.Milliseconds(), 10) + "ms",
				}
			}
			tv := components.NewTableView(theme.DefaultTheme())
			tv.MaxColumnWidth = 60
			tv.SetData([]string{"when", "source", "filters", "match", "rows", "took"}, rows, len(rows))
			fmt.Fprintln(cmd.OutOrStdout(), tv.View())
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "only runs whose source, flags or filters contain this text")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")

	return cmd
}
