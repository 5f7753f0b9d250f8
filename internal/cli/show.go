package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tasktree/internal/client"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task and its sub-tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	cache, err := newCache()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := loadCacheWarnDegraded(ctx, cache); err != nil {
		return err
	}

	id := args[0]
	task, err := cache.GetTask(ctx, id)
	if err != nil {
		if !errors.Is(err, client.ErrDegraded) {
			return err
		}
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	now := time.Now()
	renderTaskDetail(os.Stdout, task, now)

	children, err := cache.SubTasks(ctx, id)
	if err != nil && !errors.Is(err, client.ErrDegraded) {
		return err
	}
	if len(children) == 0 {
		return nil
	}

	if agg := client.ParentStatus(children); agg != nil {
		fmt.Fprintf(os.Stdout, "\nSub-task progress: %d%%\n", *agg)
	}
	fmt.Fprintln(os.Stdout)
	renderTaskTable(os.Stdout, children, now)
	return nil
}
