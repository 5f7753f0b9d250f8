package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tasktree/internal/models"
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a task",
	Long:  `Applies a partial update: only the flags you pass are sent. The parent of a sub-task cannot be changed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringP("title", "t", "", "new title")
	updateCmd.Flags().StringP("description", "d", "", "new description")
	updateCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().StringP("category", "c", "", "new category")
	updateCmd.Flags().IntP("status", "s", 0, "new completion percentage (0-100)")
	updateCmd.Flags().Bool("done", false, "shortcut for --status 100")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cache, err := newCache()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	var in models.UpdateTaskInput
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		in.Title = &v
	}
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
	if done, _ := cmd.Flags().GetBool("done"); done {
		f := float64(100)
		in.Status = &f
	}

	updated, err := cache.UpdateTask(ctx, args[0], in)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Updated task %s\n", updated.ID)
	renderTaskDetail(os.Stdout, updated, time.Now())
	return nil
}
