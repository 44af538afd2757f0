package cmd

import (
	"strconv"

	"github.com/eventplus/evp/internal/output"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:     "notify",
	Short:   "View local notifications",
	GroupID: "info",
}

var notifyLimit int

var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications, unread first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		notifications, err := database.ListNotifications(notifyLimit)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if len(notifications) == 0 {
			output.Info("No notifications.")
			return nil
		}

		for _, n := range notifications {
			marker := "•"
			title := output.Bold(n.Title)
			if n.Read {
				marker = " "
				title = n.Title
			}
			output.Info("%s %4d  %s  %s", marker, n.ID, title,
				output.Dim(n.CreatedAt.Format("2006-01-02 15:04")))
			if n.Message != "" {
				output.Info("        %s", n.Message)
			}
		}
		return nil
	},
}

var notifyReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			output.Error("invalid notification id: %s", args[0])
			return err
		}

		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		if err := database.MarkNotificationRead(id); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Marked notification %d read", id)
		return nil
	},
}

var notifyReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		if err := database.MarkAllNotificationsRead(); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Marked all notifications read")
		return nil
	},
}

func init() {
	notifyListCmd.Flags().IntVar(&notifyLimit, "limit", 0, "limit the number of notifications shown")

	notifyCmd.AddCommand(notifyListCmd, notifyReadCmd, notifyReadAllCmd)
	rootCmd.AddCommand(notifyCmd)
}
