package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/eventplus/evp/internal/db"
	"github.com/eventplus/evp/internal/mirror"
	"github.com/eventplus/evp/internal/models"
	"github.com/eventplus/evp/internal/output"
	evsync "github.com/eventplus/evp/internal/sync"
	"github.com/spf13/cobra"
)

var guestCmd = &cobra.Command{
	Use:     "guest",
	Short:   "Manage guest lists",
	GroupID: "core",
}

var (
	guestEmail string
	guestPhone string
	guestName  string
)

var guestAddCmd = &cobra.Command{
	Use:   "add [event-id] <name>",
	Short: "Add a guest to an event",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[len(args)-1]
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

		guest := &models.Guest{
			EventID: eventID,
			Name:    name,
			Email:   guestEmail,
			Phone:   guestPhone,
		}

		shim := evsync.New(database)
		if err := shim.CreateGuest(guest); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Added guest %s %s (pending)", guest.ID, guest.Name)
		maybeAutoSync(database)
		return nil
	},
}

var guestListCmd = &cobra.Command{
	Use:   "list [event-id]",
	Short: "List guests of an event",
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

		guests, err := database.ListGuestsByEvent(eventID)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if len(guests) == 0 {
			output.Info("No guests on this event yet.")
			return nil
		}

		for _, g := range guests {
			contact := g.Email
			if contact == "" {
				contact = g.Phone
			}
			line := fmt.Sprintf("%s  %-24s %-10s %s",
				output.Dim(g.ID), g.Name, g.Status, output.Dim(contact))
			output.Info("%s", line)
		}
		return nil
	},
}

var guestRsvpCmd = &cobra.Command{
	Use:   "rsvp <guest-id> <pending|confirmed|refused>",
	Short: "Record a guest's RSVP",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := models.NormalizeGuestStatus(args[1])
		if !models.IsValidGuestStatus(status) {
			err := fmt.Errorf("invalid status: %s (valid: pending, confirmed, refused)", args[1])
			output.Error("%v", err)
			return err
		}

		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		guest, err := database.GetGuest(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		guest.Status = status
		shim := evsync.New(database)
		if err := shim.UpdateGuest(guest); err != nil {
			output.Error("%v", err)
			return err
		}

		recordNotification(database, "RSVP update",
			fmt.Sprintf("%s is now %s", guest.Name, status), guest.EventID)

		output.Success("%s is now %s", guest.Name, status)
		maybeAutoSync(database)
		return nil
	},
}

var guestUpdateCmd = &cobra.Command{
	Use:   "update <guest-id>",
	Short: "Update guest contact details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		guest, err := database.GetGuest(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if cmd.Flags().Changed("name") {
			guest.Name = guestName
		}
		if cmd.Flags().Changed("email") {
			guest.Email = guestEmail
		}
		if cmd.Flags().Changed("phone") {
			guest.Phone = guestPhone
		}

		shim := evsync.New(database)
		if err := shim.UpdateGuest(guest); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Updated guest %s", guest.ID)
		maybeAutoSync(database)
		return nil
	},
}

var guestRemoveCmd = &cobra.Command{
	Use:     "remove <guest-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a guest from an event",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		guest, err := database.GetGuest(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		shim := evsync.New(database)
		if err := shim.DeleteGuest(guest.ID); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Removed guest %s %s", guest.ID, guest.Name)
		maybeAutoSync(database)
		return nil
	},
}

var guestPullCmd = &cobra.Command{
	Use:   "pull [event-id]",
	Short: "Pull provider-identified guest profiles from the mirror",
	Long: `Fetches guest documents for the event from the remote mirror and merges
them into the local list. Guests already known by provider UID keep their
local ID; their profile fields are overwritten with the remote values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := resolveEventID(args)
		if err != nil {
			output.Error("%v", err)
			return err
		}

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

		if _, err := database.GetEvent(eventID); err != nil {
			output.Error("%v", err)
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := newMirrorClient(auth)
		docs, err := client.QueryByField(ctx, mirror.CollectionGuests, "event_id", eventID)
		if err != nil {
			output.Error("fetch remote guests: %v", err)
			return err
		}

		shim := evsync.New(database)
		merged := 0
		for _, doc := range docs {
			providerUID, _ := doc.Fields["provider_uid"].(string)
			if providerUID == "" {
				continue
			}
			profile := evsync.GuestProfile{}
			if v, ok := doc.Fields["name"].(string); ok {
				profile.Name = v
			}
			if v, ok := doc.Fields["email"].(string); ok {
				profile.Email = v
			}
			if v, ok := doc.Fields["phone"].(string); ok {
				profile.Phone = v
			}
			if v, ok := doc.Fields["status"].(string); ok {
				profile.Status = models.NormalizeGuestStatus(v)
			}
			if _, err := shim.ReconcileGuestProfile(eventID, providerUID, profile); err != nil {
				output.Error("merge guest %s: %v", providerUID, err)
				return err
			}
			merged++
		}

		output.Success("Merged %d guest profile(s) from the mirror", merged)
		maybeAutoSync(database)
		return nil
	},
}

// recordNotification appends a local notification; failures are non-fatal.
func recordNotification(database *db.DB, title, message, eventID string) {
	_ = database.AddNotification(&models.Notification{
		Title:   title,
		Message: message,
		EventID: eventID,
	})
}

func init() {
	guestAddCmd.Flags().StringVar(&guestEmail, "email", "", "guest email")
	guestAddCmd.Flags().StringVar(&guestPhone, "phone", "", "guest phone")

	guestUpdateCmd.Flags().StringVar(&guestName, "name", "", "guest name")
	guestUpdateCmd.Flags().StringVar(&guestEmail, "email", "", "guest email")
	guestUpdateCmd.Flags().StringVar(&guestPhone, "phone", "", "guest phone")

	guestCmd.AddCommand(guestAddCmd, guestListCmd, guestRsvpCmd, guestUpdateCmd, guestRemoveCmd, guestPullCmd)
	rootCmd.AddCommand(guestCmd)
}
