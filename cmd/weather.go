package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/eventplus/evp/internal/config"
	"github.com/eventplus/evp/internal/models"
	"github.com/eventplus/evp/internal/output"
	evsync "github.com/eventplus/evp/internal/sync"
	"github.com/eventplus/evp/internal/weather"
	"github.com/spf13/cobra"
)

var (
	weatherCity     string
	weatherSave     bool
	weatherRemember bool
)

var weatherCmd = &cobra.Command{
	Use:     "weather [event-id]",
	Short:   "Preview the forecast for an event's date and place",
	GroupID: "info",
	Long: `Looks up the forecast entry closest to (but not after) the event's start
time. Events further out than the forecast horizon get no preview rather
than a guess.`,
	Args: cobra.MaximumNArgs(1),
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

		city := weatherCity
		if city == "" {
			city = event.Location
		}
		if city == "" {
			if project, err := config.LoadProject(getBaseDir()); err == nil {
				city = project.DefaultCity
			}
		}
		if city == "" {
			output.Error("event has no location: pass one with --city")
			return errors.New("no city")
		}
		if weatherRemember && weatherCity != "" {
			if err := config.SetDefaultCity(getBaseDir(), weatherCity); err != nil {
				output.Warn("remember city: %v", err)
			}
		}
		if event.StartsAt.IsZero() {
			output.Error("event has no date yet")
			return errors.New("no date")
		}

		apiKey := config.GetWeatherAPIKey()
		if apiKey == "" {
			output.Error("no weather API key: set EVP_WEATHER_API_KEY or add it to .env")
			return errors.New("no api key")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := weather.New(config.GetWeatherBaseURL(), apiKey)

		loc, err := client.Geocode(ctx, city)
		if err != nil {
			if errors.Is(err, weather.ErrCityNotFound) {
				output.Error("city not found")
			} else {
				output.Error("forecast fetch failed")
			}
			return err
		}

		entries, err := client.Forecast(ctx, loc.Lat, loc.Lon)
		if err != nil {
			output.Error("forecast fetch failed")
			return err
		}

		entry, ok := weather.PickForecast(entries, event.StartsAt)
		if !ok {
			output.Warn("No forecast available yet for %s (too far out)",
				event.StartsAt.Format("2006-01-02 15:04"))
			return nil
		}

		output.Info("%s", output.Header("Forecast for "+loc.Name))
		output.Info("At:          %s %s", entry.Timestamp.Format("Mon, 02 Jan 15:04"),
			output.Dim("(event at "+event.StartsAt.Format("15:04")+")"))
		output.Info("Conditions:  %.0f°C, %s", entry.TempC, entry.Description)
		output.Info("Humidity:    %d%%", entry.Humidity)
		output.Info("Wind:        %.0f km/h", entry.WindKph)

		if weatherSave {
			event.Weather = &models.WeatherSnapshot{
				TempC:       entry.TempC,
				Description: entry.Description,
				Icon:        entry.Icon,
				Humidity:    entry.Humidity,
				WindKph:     entry.WindKph,
				CapturedAt:  time.Now(),
			}
			shim := evsync.New(database)
			if err := shim.UpdateEvent(event); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Saved forecast snapshot to event %s", event.ID)
			maybeAutoSync(database)
		}
		return nil
	},
}

func init() {
	weatherCmd.Flags().StringVar(&weatherCity, "city", "", "override the event location")
	weatherCmd.Flags().BoolVar(&weatherSave, "save", false, "store the forecast snapshot on the event")
	weatherCmd.Flags().BoolVar(&weatherRemember, "remember", false, "make --city the project default")

	rootCmd.AddCommand(weatherCmd)
}
