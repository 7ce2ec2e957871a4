package calendar

import (
	"context"
	"fmt"
	"log"
	"time"

	config "github.com/ripetizioniapp/booking_engine/configs"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type CalendarService struct {
	service    *gcal.Service
	calendarID string
}

var Client *CalendarService

// InitCalendarService authenticates against Google Calendar with a
// service-account credential. The calendar integration is optional:
// without credentials the client stays nil and event creation becomes
// a no-op.
func InitCalendarService() {
	credsJSON := config.Config("GOOGLE_CREDENTIALS_JSON")
	calendarID := config.Config("GOOGLE_CALENDAR_ID")

	if credsJSON == "" || calendarID == "" {
		log.Println("⚠️ Calendar service not configured. Missing credentials or calendar id.")
		Client = nil
		return
	}

	jwtConfig, err := google.JWTConfigFromJSON([]byte(credsJSON), gcal.CalendarEventsScope)
	if err != nil {
		log.Printf("🔥 Failed to parse Google credentials: %v", err)
		Client = nil
		return
	}

	ctx := context.Background()
	service, err := gcal.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		log.Printf("🔥 Failed to create calendar service: %v", err)
		Client = nil
		return
	}

	Client = &CalendarService{service: service, calendarID: calendarID}
	log.Println("✅ Calendar service initialized successfully.")
}

func (s *CalendarService) createEvent(summary, description string, start, end time.Time) (string, error) {
	event := &gcal.Event{
		Summary:     summary,
		Description: description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: "Europe/Rome",
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: "Europe/Rome",
		},
	}

	created, err := s.service.Events.Insert(s.calendarID, event).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %v", err)
	}
	return created.Id, nil
}

// CreateEvent is best-effort: a booking must stand even when the
// calendar write fails, so errors are logged and swallowed here.
func CreateEvent(summary, description string, start, end time.Time) {
	if Client == nil {
		return
	}

	eventID, err := Client.createEvent(summary, description, start, end)
	if err != nil {
		log.Printf("🔥 Failed to create calendar event for %q: %v", summary, err)
		return
	}

	log.Printf("✅ Calendar event %s created for %q", eventID, summary)
}
