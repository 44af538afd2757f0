package cmd

import (
	"github.com/eventplus/evp/internal/config"
	"github.com/eventplus/evp/internal/output"
	"github.com/spf13/cobra"
)

var focusClear bool

var focusCmd = &cobra.Command{
	Use:     "focus [event-id]",
	Short:   "Set the event that commands default to",
	GroupID: "core",
	Long: `With an event ID, makes that event the default for commands that take an
optional event argument (guest list, task list, budget, weather, show).
Without arguments, prints the current focus.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if focusClear {
			if err := config.ClearActiveEvent(getBaseDir()); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Cleared event focus")
			return nil
		}

		if len(args) == 0 {
			cfg, err := config.LoadProject(getBaseDir())
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if cfg.ActiveEventID == "" {
				output.Info("No event focused. Run 'evp focus <event-id>'.")
				return nil
			}

			database, err := openDB()
			if err != nil {
				output.Error("%v", err)
				return err
			}
			defer database.Close()

			event, err := database.GetEvent(cfg.ActiveEventID)
			if err != nil {
				output.Warn("Focused event %s no longer exists.", cfg.ActiveEventID)
				return nil
			}
			output.Info("Focused on %s %s", output.Dim(event.ID), output.Bold(event.Name))
			return nil
		}

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

		if err := config.SetActiveEvent(getBaseDir(), event.ID); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Focused on %s %s", event.ID, event.Name)
		return nil
	},
}

func init() {
	focusCmd.Flags().BoolVar(&focusClear, "clear", false, "clear the focused event")
	rootCmd.AddCommand(focusCmd)
}
