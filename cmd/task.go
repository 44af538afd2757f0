package cmd

import (
	"fmt"

	"github.com/eventplus/evp/internal/models"
	"github.com/eventplus/evp/internal/output"
	evsync "github.com/eventplus/evp/internal/sync"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Short:   "Manage budgeted tasks",
	GroupID: "core",
}

var (
	taskDesc   string
	taskAmount string
	taskStatus string
	taskTitle  string
)

var taskAddCmd = &cobra.Command{
	Use:   "add [event-id] <title>",
	Short: "Add a task to an event",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[len(args)-1]
		eventID, err := resolveEventID(args[:len(args)-1])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		if _, err := database.GetEvent(eventID); err != nil {
			output.Error("%v", err)
			return err
		}

		task := &models.Task{
			EventID:     eventID,
			Title:       title,
			Description: taskDesc,
		}

		if taskAmount != "" {
			cents, err := models.ParseAmount(taskAmount)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			task.AmountCents = cents
		}
		if taskStatus != "" {
			status, err := models.ParseTaskStatus(taskStatus)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			task.Status = status
		}

		shim := evsync.New(database)
		if err := shim.CreateTask(task); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Added task %s %s (%s)", task.ID, task.Title, models.FormatAmount(task.AmountCents))
		maybeAutoSync(database)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list [event-id]",
	Short: "List tasks of an event",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := resolveEventID(args)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		tasks, err := database.ListTasksByEvent(eventID)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if len(tasks) == 0 {
			output.Info("No tasks on this event yet.")
			return nil
		}

		for _, t := range tasks {
			line := fmt.Sprintf("%s  %-28s %-12s %10s",
				output.Dim(t.ID), t.Title, t.Status, models.FormatAmount(t.AmountCents))
			output.Info("%s", line)
		}
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update task fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		task, err := database.GetTask(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if cmd.Flags().Changed("title") {
			task.Title = taskTitle
		}
		if cmd.Flags().Changed("desc") {
			task.Description = taskDesc
		}
		if cmd.Flags().Changed("amount") {
			cents, err := models.ParseAmount(taskAmount)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			task.AmountCents = cents
		}
		if cmd.Flags().Changed("status") {
			status, err := models.ParseTaskStatus(taskStatus)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			task.Status = status
		}

		shim := evsync.New(database)
		if err := shim.UpdateTask(task); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Updated task %s", task.ID)
		maybeAutoSync(database)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		task, err := database.GetTask(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		task.Status = models.TaskCompleted
		shim := evsync.New(database)
		if err := shim.UpdateTask(task); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Completed %s %s", task.ID, task.Title)
		maybeAutoSync(database)
		return nil
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:     "remove <task-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		task, err := database.GetTask(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		shim := evsync.New(database)
		if err := shim.DeleteTask(task.ID); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Removed task %s %s", task.ID, task.Title)
		maybeAutoSync(database)
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "task description")
	taskAddCmd.Flags().StringVar(&taskAmount, "amount", "", "budgeted amount, e.g. 250.00")
	taskAddCmd.Flags().StringVar(&taskStatus, "status", "", "initial status (pending, in_progress, completed)")

	taskUpdateCmd.Flags().StringVar(&taskTitle, "title", "", "task title")
	taskUpdateCmd.Flags().StringVar(&taskDesc, "desc", "", "task description")
	taskUpdateCmd.Flags().StringVar(&taskAmount, "amount", "", "budgeted amount")
	taskUpdateCmd.Flags().StringVar(&taskStatus, "status", "", "status (pending, in_progress, completed)")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskUpdateCmd, taskDoneCmd, taskRemoveCmd)
	rootCmd.AddCommand(taskCmd)
}
