package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tasktree/internal/models"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Long:  `Creates a task on the server. With --parent, creates a sub-task of an existing task.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringP("description", "d", "", "task description")
	addCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringP("category", "c", "", "task category")
	addCmd.Flags().IntP("status", "s", 0, "completion percentage (0-100)")
	addCmd.Flags().StringP("parent", "p", "", "parent task id (creates a sub-task)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cache, err := newCache()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	in := models.CreateTaskInput{Title: strings.Join(args, " ")}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		in.Description = &v
	}
	if cmd.Flags().Changed("due") {
		v, _ := cmd.Flags().GetString("due")
		in.DueDate = &v
	}
	if cmd.Flags().Changed("category") {
		v, _ := cmd.Flags().GetString("category")
		in.Category = &v
	}
	if cmd.Flags().Changed("status") {
		v, _ := cmd.Flags().GetInt("status")
		f := float64(v)
		in.Status = &f
	}

	var created models.Task
	if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
		created, err = cache.AddSubTask(ctx, parent, in)
	} else {
		created, err = cache.AddTask(ctx, in)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Created task %s\n", created.ID)
	renderTaskDetail(os.Stdout, created, time.Now())
	return nil
}
