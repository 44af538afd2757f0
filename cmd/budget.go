package cmd

import (
	"github.com/eventplus/evp/internal/models"
	"github.com/eventplus/evp/internal/output"
	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:     "budget [event-id]",
	Short:   "Show the budget breakdown for an event",
	GroupID: "info",
	Args:    cobra.MaximumNArgs(1),
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
		totals, err := database.TaskTotals(event.ID)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		output.Info("%s", output.Header("Budget: "+event.Name))
		output.Info("Pending:      %3d task(s)  %12s", totals.PendingCount, models.FormatAmount(totals.PendingCents))
		output.Info("In progress:  %3d task(s)  %12s", totals.InProgressCount, models.FormatAmount(totals.InProgressCents))
		output.Info("Completed:    %3d task(s)  %12s", totals.CompletedCount, models.FormatAmount(totals.CompletedCents))
		output.Info("Committed:    %s", output.Bold(models.FormatAmount(totals.CommittedCents())))

		if event.BudgetCents > 0 {
			pct := totals.BudgetUsedPercent(event.BudgetCents)
			output.Info("Budget:       %s (%.1f%% spent)", models.FormatAmount(event.BudgetCents), pct)
			if remaining := event.BudgetCents - totals.CommittedCents(); remaining < 0 {
				output.Warn("Over budget by %s", models.FormatAmount(-remaining))
			} else {
				output.Info("Remaining:    %s", models.FormatAmount(remaining))
			}
		} else {
			output.Info("%s", output.Dim("No budget set for this event."))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}
