package sync

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/eventplus/evp/internal/mirror"
	"github.com/eventplus/evp/internal/models"
)

// Entity types recorded in outbox intents.
const (
	EntityEvent = "event"
	EntityGuest = "guest"
	EntityTask  = "task"
	EntityUser  = "user"
)

// CollectionFor maps an intent entity type to its mirror collection.
func CollectionFor(entityType string) (string, error) {
	switch entityType {
	case EntityEvent:
		return mirror.CollectionEvents, nil
	case EntityGuest:
		return mirror.CollectionGuests, nil
	case EntityTask:
		return mirror.CollectionTasks, nil
	case EntityUser:
		return mirror.CollectionUsers, nil
	}
	return "", fmt.Errorf("unknown entity type: %s", entityType)
}

// One field-map builder per entity, shared by every call site, so the remote
// payload cannot drift between create and update paths.

// EventFields builds the mirror field map for an event.
func EventFields(e *models.Event) map[string]interface{} {
	fields := map[string]interface{}{
		"id":           e.ID,
		"name":         e.Name,
		"description":  e.Description,
		"starts_at":    e.StartsAt.UTC().Format(time.RFC3339),
		"location":     e.Location,
		"budget_cents": e.BudgetCents,
		"owner_uid":    e.OwnerUID,
		"image_ref":    e.ImageRef,
	}
	if e.Weather != nil {
		fields["weather"] = map[string]interface{}{
			"temp_c":      e.Weather.TempC,
			"description": e.Weather.Description,
			"icon":        e.Weather.Icon,
			"humidity":    e.Weather.Humidity,
			"wind_kph":    e.Weather.WindKph,
			"captured_at": e.Weather.CapturedAt.UTC().Format(time.RFC3339),
		}
	}
	return fields
}

// GuestFields builds the mirror field map for a guest.
func GuestFields(g *models.Guest) map[string]interface{} {
	return map[string]interface{}{
		"id":           g.ID,
		"event_id":     g.EventID,
		"name":         g.Name,
		"email":        g.Email,
		"phone":        g.Phone,
		"status":       string(g.Status),
		"provider_uid": g.ProviderUID,
	}
}

// TaskFields builds the mirror field map for a task.
func TaskFields(t *models.Task) map[string]interface{} {
	return map[string]interface{}{
		"id":           t.ID,
		"event_id":     t.EventID,
		"title":        t.Title,
		"description":  t.Description,
		"amount_cents": t.AmountCents,
		"status":       int(t.Status),
	}
}

// UserFields builds the mirror field map for a user.
func UserFields(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"uid":       u.UID,
		"full_name": u.FullName,
		"username":  u.Username,
		"email":     u.Email,
		"phone":     u.Phone,
		"photo_ref": u.PhotoRef,
	}
}

func marshalFields(fields map[string]interface{}) ([]byte, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal mirror payload: %w", err)
	}
	return data, nil
}
