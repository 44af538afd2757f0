package cmd

import (
	"fmt"
	"os"

	"github.com/eventplus/evp/internal/config"
	"github.com/spf13/cobra"
)

var (
	version string
	baseDir string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "evp",
	Short: "Local-first event planning CLI",
	Long: `evp - plan events, track budgeted tasks, and manage guest lists.

All data lives in a local database that stays authoritative; changes are
mirrored to the remote store in the background and retried until confirmed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Planning Commands:"},
		&cobra.Group{ID: "account", Title: "Account Commands:"},
		&cobra.Group{ID: "info", Title: "Info Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)

	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
	config.LoadEnv(baseDir)
}

// getBaseDir returns the base directory for the project
func getBaseDir() string {
	return baseDir
}

// requireAuth loads stored credentials or fails with a hint.
func requireAuth() (*config.AuthCredentials, error) {
	auth, err := config.LoadAuth()
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if auth == nil || auth.Token == "" {
		return nil, fmt.Errorf("not signed in: run 'evp login' first")
	}
	return auth, nil
}
