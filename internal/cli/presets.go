package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/ui/components"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
	"github.com/spf13/cobra"
)

func newPresetsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage saved filter presets",
	}

	var search, sortBy string
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.presetManager()
			if err != nil {
				return err
			}

			var items []models.Preset
			switch sortBy {
			case "used":
				items = m.GetMostUsed(0)
			case "recent":
				items = m.GetRecent(0)
			default:
				items = m.GetAll()
			}
			if search != "" {
				matched := make(map[string]bool)
				for _, p := range m.Search(search) {
					matched[p.ID] = true
				}
				var filtered []models.Preset
				for _, p := range items {
					if matched[p.ID] {
						filtered = append(filtered, p)
					}
				}
				items = filtered
			}

			rows := make([][]string, len(items))
			for i, p := range items {
				rows[i] = []string{p.Name, string(p.MatchType), summarize(p.Filters), strings.Join(p.Tags, ", "), strconv.Itoa(p.UsageCount)}
			}
			tv := components.NewTableView(theme.DefaultTheme())
			tv.MaxColumnWidth = 60
			tv.SetData([]string{"name", "match", "filters", "tags", "uses"}, rows, len(m.GetAll()))
			fmt.Fprintln(cmd.OutOrStdout(), tv.View())
			return nil
		},
	}
	list.Flags().StringVar(&search, "search", "", "only presets whose name, description, tags or columns contain this text")
	list.Flags().StringVar(&sortBy, "sort", "", "order by: used, recent (default: creation order)")

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.presetManager()
			if err != nil {
				return err
			}
			p, err := m.GetByName(args[0])
			if err != nil {
				return err
			}
			if err := m.Delete(p.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), components.SuccessMessage(theme.DefaultTheme(), fmt.Sprintf("Deleted preset %q", p.Name)))
			return nil
		},
	}

	exp := &cobra.Command{
		Use:   "export [PATH]",
		Short: "Export presets to a .json or .csv file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.presetManager()
			if err != nil {
				return err
			}
			var path string
			if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".csv") {
				path, err = m.ExportToCSV(args[0])
			} else {
				path, err = m.ExportToJSON(args...)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), components.SuccessMessage(theme.DefaultTheme(), "Exported presets to "+path))
			return nil
		},
	}

	cmd.AddCommand(list, del, exp)
	return cmd
}
