package googleservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/xrendezvous/ConnectiveApp/server/models"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	DEFAULT_CALENDAR_ID = "primary"
	YEARLY_RECURRENCE   = "RRULE:FREQ=YEARLY"
)

type GCalendarAPIInterface interface {
	// CreateBirthdayEvents creates a yearly all-day event for every contact with a
	// birthdate, replacing the contact's previous event. It returns the new event
	// IDs by contact ID.
	CreateBirthdayEvents(ctx context.Context, contacts []models.Contact) (map[uint]string, error)

	// ClearEvents deletes the google calendar events with eventIDs
	ClearEvents(ctx context.Context, eventIDs []string) error
}

type GCalendarAPI struct {
	service    *calendar.Service
	calendarID string
}

// NewGoogleCalendarAPI authenticates with a service account file, or with the
// application default credentials when credentialsFilePath is empty
func NewGoogleCalendarAPI(ctx context.Context, credentialsFilePath, calendarID string) (*GCalendarAPI, error) {
	var opts []option.ClientOption

	if credentialsFilePath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFilePath), option.WithScopes(calendar.CalendarEventsScope))
	} else {
		credentials, err := google.FindDefaultCredentials(ctx, calendar.CalendarEventsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to find google credentials: %v", err)
		}
		opts = append(opts, option.WithCredentials(credentials))
	}

	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %v", err)
	}

	if calendarID == "" {
		calendarID = DEFAULT_CALENDAR_ID
	}

	return &GCalendarAPI{service: service, calendarID: calendarID}, nil
}

func (gcalAPI *GCalendarAPI) CreateBirthdayEvents(ctx context.Context, contacts []models.Contact) (map[uint]string, error) {
	eventIDs := map[uint]string{}
	created := []string{}

	for _, contact := range contacts {
		if contact.Birthdate == nil {
			continue
		}

		if contact.CalendarEventID != "" {
			err := gcalAPI.deleteEvent(ctx, contact.CalendarEventID)
			if err != nil {
				return nil, gcalAPI.rollback(ctx, created, err)
			}
		}

		event, err := gcalAPI.service.Events.Insert(gcalAPI.calendarID, BirthdayEvent(contact)).Context(ctx).Do()
		if err != nil {
			return nil, gcalAPI.rollback(ctx, created, err)
		}

		created = append(created, event.Id)
		eventIDs[contact.ID] = event.Id
	}

	return eventIDs, nil
}

func (gcalAPI *GCalendarAPI) ClearEvents(ctx context.Context, eventIDs []string) error {
	errorMsg := ""

	for _, eventID := range eventIDs {
		err := gcalAPI.deleteEvent(ctx, eventID)
		if err != nil {
			errorMsg += fmt.Sprintf("unable to delete event = %v because %v;", eventID, err)
		}
	}

	if errorMsg != "" {
		return errors.New(errorMsg)
	}

	return nil
}

// deleteEvent ignores events that are already gone
func (gcalAPI *GCalendarAPI) deleteEvent(ctx context.Context, eventID string) error {
	err := gcalAPI.service.Events.Delete(gcalAPI.calendarID, eventID).Context(ctx).Do()

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		return nil
	}

	return err
}

// Create all events or no event
func (gcalAPI *GCalendarAPI) rollback(ctx context.Context, created []string, err error) error {
	delErr := gcalAPI.ClearEvents(ctx, created)
	if delErr != nil {
		err = fmt.Errorf("%v; %v", err, delErr)
	}
	return fmt.Errorf("unable to create birthday events. %v", err)
}

// BirthdayEvent returns the yearly all-day event for contact's birthday
func BirthdayEvent(contact models.Contact) *calendar.Event {
	start := contact.Birthdate.Time
	end := start.AddDate(0, 0, 1)

	return &calendar.Event{
		Summary:      fmt.Sprintf("🎂 %s's birthday", contact.FullName()),
		Description:  "Birthday reminder from ConnectiveApp",
		Start:        &calendar.EventDateTime{Date: start.Format(models.DATE_LAYOUT)},
		End:          &calendar.EventDateTime{Date: end.Format(models.DATE_LAYOUT)},
		Recurrence:   []string{YEARLY_RECURRENCE},
		Transparency: "transparent",
		Reminders: &calendar.EventReminders{
			Overrides: []*calendar.EventReminder{
				{
					Method:  "popup",
					Minutes: 24 * 60,
				},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}
