package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"tasktree/internal/taskview"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists top-level tasks with optional filtering and sorting. Sub-tasks are shown via "tasktreectl show".`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringP("category", "c", "", "filter by category (Work, Personal, Shopping, Health, Finance, Education, Home, Other)")
	listCmd.Flags().String("status", taskview.StatusAll, "filter by status class (all, completed, incomplete, in-progress)")
	listCmd.Flags().String("due", "", "filter by due range (overdue, today, tomorrow, week, month, no-due-date)")
	listCmd.Flags().StringP("search", "s", "", "search title and description (case-insensitive)")
	listCmd.Flags().String("sort", taskview.DefaultSort, "sort order as field-direction, e.g. dueDate-asc, title-desc, createdAt-desc")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cache, err := newCache()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := loadCacheWarnDegraded(ctx, cache); err != nil {
		return err
	}

	category, _ := cmd.Flags().GetString("category")
	status, _ := cmd.Flags().GetString("status")
	due, _ := cmd.Flags().GetString("due")
	search, _ := cmd.Flags().GetString("search")
	sortOption, _ := cmd.Flags().GetString("sort")

	criteria := taskview.Criteria{
		Category:    category,
		Status:      status,
		DateRange:   due,
		SearchQuery: search,
	}

	renderTaskTable(os.Stdout, cache.Visible(criteria, sortOption), time.Now())
	return nil
}
