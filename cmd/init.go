package cmd

import (
	"github.com/eventplus/evp/internal/db"
	"github.com/eventplus/evp/internal/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Create the local event database in the current directory",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Initialize(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		output.Success("Initialized event database in .eventplus/")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
