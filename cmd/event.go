package cmd

import (
	"fmt"

	"github.com/eventplus/evp/internal/config"
	"github.com/eventplus/evp/internal/dateparse"
	"github.com/eventplus/evp/internal/models"
	"github.com/eventplus/evp/internal/output"
	evsync "github.com/eventplus/evp/internal/sync"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:     "event",
	Short:   "Manage events",
	GroupID: "core",
}

var (
	eventDesc     string
	eventDate     string
	eventLocation string
	eventBudget   string
	eventImage    string
	eventName     string
)

var eventCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := requireAuth()
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

		event := &models.Event{
			Name:        args[0],
			Description: eventDesc,
			Location:    eventLocation,
			ImageRef:    eventImage,
			OwnerUID:    auth.UID,
		}

		if eventDate != "" {
			when, err := dateparse.ParseDateTime(eventDate)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			event.StartsAt = when
		}
		if eventBudget != "" {
			cents, err := models.ParseAmount(eventBudget)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			event.BudgetCents = cents
		}

		shim := evsync.New(database)
		if err := shim.CreateEvent(event); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Created event %s %s", event.ID, event.Name)
		maybeAutoSync(database)
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := requireAuth()
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

		events, err := database.ListEventsByOwner(auth.UID)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if len(events) == 0 {
			output.Info("No events yet. Create one with 'evp event create'.")
			return nil
		}

		for _, e := range events {
			date := "unscheduled"
			if !e.StartsAt.IsZero() {
				date = e.StartsAt.Format("2006-01-02 15:04")
			}
			line := fmt.Sprintf("%s  %s", output.Dim(e.ID), output.Bold(e.Name))
			output.Info("%s", line)
			detail := fmt.Sprintf("          %s", date)
			if e.Location != "" {
				detail += "  " + e.Location
			}
			if e.BudgetCents > 0 {
				detail += "  budget " + models.FormatAmount(e.BudgetCents)
			}
			output.Info("%s", output.Dim(detail))
		}
		return nil
	},
}

var eventShowCmd = &cobra.Command{
	Use:   "show [event-id]",
	Short: "Show event details with guest and budget summaries",
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

		event, err := database.GetEvent(eventID)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		output.Info("%s", output.Header(event.Name))
		output.Info("ID:        %s", event.ID)
		if event.Description != "" {
			output.Info("About:     %s", event.Description)
		}
		if !event.StartsAt.IsZero() {
			output.Info("When:      %s", event.StartsAt.Format("Mon, 02 Jan 2006 15:04"))
		}
		if event.Location != "" {
			output.Info("Where:     %s", event.Location)
		}

		counts, err := database.CountGuestsByStatus(event.ID)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		output.Info("Guests:    %d confirmed, %d pending, %d refused",
			counts[models.GuestConfirmed], counts[models.GuestPending], counts[models.GuestRefused])

		totals, err := database.TaskTotals(event.ID)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		output.Info("Tasks:     %d total (%d done)", totals.TotalCount(), totals.CompletedCount)
		if event.BudgetCents > 0 {
			output.Info("Budget:    %s committed of %s (%.1f%% spent)",
				models.FormatAmount(totals.CommittedCents()),
				models.FormatAmount(event.BudgetCents),
				totals.BudgetUsedPercent(event.BudgetCents))
		} else if totals.CommittedCents() > 0 {
			output.Info("Budget:    %s committed (no budget set)",
				models.FormatAmount(totals.CommittedCents()))
		}

		if w := event.Weather; w != nil {
			output.Info("Weather:   %.0f°C, %s %s", w.TempC, w.Description,
				output.Dim("(as of "+w.CapturedAt.Format("2006-01-02 15:04")+")"))
		}
		return nil
	},
}

var eventUpdateCmd = &cobra.Command{
	Use:   "update <event-id>",
	Short: "Update event fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		event, err := database.GetEvent(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if cmd.Flags().Changed("name") {
			event.Name = eventName
		}
		if cmd.Flags().Changed("desc") {
			event.Description = eventDesc
		}
		if cmd.Flags().Changed("location") {
			event.Location = eventLocation
		}
		if cmd.Flags().Changed("image") {
			event.ImageRef = eventImage
		}
		if cmd.Flags().Changed("date") {
			when, err := dateparse.ParseDateTime(eventDate)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			event.StartsAt = when
		}
		if cmd.Flags().Changed("budget") {
			cents, err := models.ParseAmount(eventBudget)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			event.BudgetCents = cents
		}

		shim := evsync.New(database)
		if err := shim.UpdateEvent(event); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Updated event %s", event.ID)
		maybeAutoSync(database)
		return nil
	},
}

var eventDeleteCmd = &cobra.Command{
	Use:     "delete <event-id>",
	Aliases: []string{"rm"},
	Short:   "Delete an event and everything under it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		event, err := database.GetEvent(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		shim := evsync.New(database)
		if err := shim.DeleteEvent(event.ID); err != nil {
			output.Error("%v", err)
			return err
		}

		if project, err := config.LoadProject(getBaseDir()); err == nil && project.ActiveEventID == event.ID {
			if err := config.ClearActiveEvent(getBaseDir()); err != nil {
				output.Warn("clear focus: %v", err)
			}
		}

		output.Success("Deleted event %s %s", event.ID, event.Name)
		maybeAutoSync(database)
		return nil
	},
}

func init() {
	eventCreateCmd.Flags().StringVar(&eventDesc, "desc", "", "event description")
	eventCreateCmd.Flags().StringVar(&eventDate, "date", "", "event date (YYYY-MM-DD [HH:MM], tomorrow, +7d, saturday)")
	eventCreateCmd.Flags().StringVar(&eventLocation, "location", "", "event location (city)")
	eventCreateCmd.Flags().StringVar(&eventBudget, "budget", "", "budget as a decimal amount, e.g. 1500.00")
	eventCreateCmd.Flags().StringVar(&eventImage, "image", "", "image reference")

	eventUpdateCmd.Flags().StringVar(&eventName, "name", "", "event name")
	eventUpdateCmd.Flags().StringVar(&eventDesc, "desc", "", "event description")
	eventUpdateCmd.Flags().StringVar(&eventDate, "date", "", "event date")
	eventUpdateCmd.Flags().StringVar(&eventLocation, "location", "", "event location (city)")
	eventUpdateCmd.Flags().StringVar(&eventBudget, "budget", "", "budget as a decimal amount")
	eventUpdateCmd.Flags().StringVar(&eventImage, "image", "", "image reference")

	eventCmd.AddCommand(eventCreateCmd, eventListCmd, eventShowCmd, eventUpdateCmd, eventDeleteCmd)
	rootCmd.AddCommand(eventCmd)
}
