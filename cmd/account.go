package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/eventplus/evp/internal/config"
	"github.com/eventplus/evp/internal/identity"
	"github.com/eventplus/evp/internal/models"
	"github.com/eventplus/evp/internal/output"
	evsync "github.com/eventplus/evp/internal/sync"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	accountFullName string
	accountUsername string
	accountPhone    string
	accountPhoto    string
	accountEmail    string
)

var registerCmd = &cobra.Command{
	Use:     "register <email>",
	Short:   "Create an account with the identity provider",
	GroupID: "account",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password: ")
		if err != nil {
			output.Error("%v", err)
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if password != confirm {
			err := errors.New("passwords do not match")
			output.Error("%v", err)
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := identity.New(config.GetIdentityURL())
		session, err := client.SignUp(ctx, args[0], password, identity.Profile{
			FullName: accountFullName,
			Username: accountUsername,
			Phone:    accountPhone,
		})
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if err := storeSession(session); err != nil {
			output.Error("%v", err)
			return err
		}

		// The local profile row mirrors to the users collection like any
		// other entity; a missing database just skips it.
		if database, err := openDB(); err == nil {
			defer database.Close()
			shim := evsync.New(database)
			if err := shim.SaveUser(&models.User{
				UID:      session.UID,
				FullName: accountFullName,
				Username: accountUsername,
				Email:    session.Email,
				Phone:    accountPhone,
			}); err != nil {
				output.Warn("save local profile: %v", err)
			}
			maybeAutoSync(database)
		}

		output.Success("Registered and signed in as %s", session.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:     "login <email>",
	Short:   "Sign in to your account",
	GroupID: "account",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password: ")
		if err != nil {
			output.Error("%v", err)
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := identity.New(config.GetIdentityURL())
		session, err := client.SignIn(ctx, args[0], password)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if err := storeSession(session); err != nil {
			output.Error("%v", err)
			return err
		}

		// Make sure a local profile row exists for this identity.
		if database, err := openDB(); err == nil {
			defer database.Close()
			if _, err := database.GetUser(session.UID); err != nil {
				shim := evsync.New(database)
				if err := shim.SaveUser(&models.User{UID: session.UID, Email: session.Email}); err != nil {
					output.Warn("save local profile: %v", err)
				}
			}
			maybeAutoSync(database)
		}

		output.Success("Signed in as %s", session.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Sign out and discard stored credentials",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := config.LoadAuth()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if auth == nil || auth.Token == "" {
			output.Info("Not signed in.")
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		client := identity.New(config.GetIdentityURL())
		if err := client.SignOut(ctx, auth.Token); err != nil {
			// Local credentials go away regardless; the provider session
			// expires on its own.
			output.Warn("provider sign-out failed: %v", err)
		}

		if err := config.ClearAuth(); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in account",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := config.LoadAuth()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if auth == nil || auth.Token == "" {
			output.Info("Not signed in.")
			return nil
		}

		output.Info("Email:   %s", auth.Email)
		output.Info("UID:     %s", auth.UID)
		if auth.ExpiresAt != "" {
			output.Info("Expires: %s", auth.ExpiresAt)
		}

		if database, err := openDB(); err == nil {
			defer database.Close()
			if user, err := database.GetUser(auth.UID); err == nil && user != nil && user.FullName != "" {
				output.Info("Name:    %s", user.FullName)
				if user.Username != "" {
					output.Info("Handle:  @%s", user.Username)
				}
			}
		}
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:     "profile",
	Short:   "Update your profile",
	GroupID: "account",
	Args:    cobra.NoArgs,
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

		user, err := database.GetUser(auth.UID)
		if err != nil {
			// First profile write for this identity.
			user = &models.User{UID: auth.UID, Email: auth.Email}
		}

		if cmd.Flags().Changed("name") {
			user.FullName = accountFullName
		}
		if cmd.Flags().Changed("username") {
			user.Username = accountUsername
		}
		if cmd.Flags().Changed("phone") {
			user.Phone = accountPhone
		}
		if cmd.Flags().Changed("photo") {
			user.PhotoRef = accountPhoto
		}
		if cmd.Flags().Changed("email") {
			user.Email = accountEmail
		}

		shim := evsync.New(database)
		if err := shim.SaveUser(user); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Profile updated")
		maybeAutoSync(database)
		return nil
	},
}

// storeSession persists provider credentials alongside the device ID.
func storeSession(session *identity.Session) error {
	deviceID, err := config.GetDeviceID()
	if err != nil {
		return err
	}
	auth := &config.AuthCredentials{
		Token:    session.Token,
		UID:      session.UID,
		Email:    session.Email,
		DeviceID: deviceID,
	}
	if !session.ExpiresAt.IsZero() {
		auth.ExpiresAt = session.ExpiresAt.Format(time.RFC3339)
	}
	if err := config.SaveAuth(auth); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read for piped input.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(data), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	registerCmd.Flags().StringVar(&accountFullName, "name", "", "full name")
	registerCmd.Flags().StringVar(&accountUsername, "username", "", "username")
	registerCmd.Flags().StringVar(&accountPhone, "phone", "", "phone number")

	profileCmd.Flags().StringVar(&accountFullName, "name", "", "full name")
	profileCmd.Flags().StringVar(&accountUsername, "username", "", "username")
	profileCmd.Flags().StringVar(&accountPhone, "phone", "", "phone number")
	profileCmd.Flags().StringVar(&accountPhoto, "photo", "", "photo reference")
	profileCmd.Flags().StringVar(&accountEmail, "email", "", "contact email")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, profileCmd)
}
