package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task and its sub-tasks",
	Long:    `Deletes a task. All of its sub-tasks, including nested ones, are removed with it.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, args []string) error {
	cache, err := newCache()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := cache.DeleteTask(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Deleted task %s\n", args[0])
	return nil
}
