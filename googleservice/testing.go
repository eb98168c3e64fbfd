package googleservice

import (
	"context"
	"fmt"

	"github.com/xrendezvous/ConnectiveApp/server/models"
)

// GCalendarAPIStub records the calls made to it instead of talking to google
type GCalendarAPIStub struct {
	CreateBirthdayEventsError error
	ClearEventsError          error
	ClearedEventIDs           []string
	calls                     int
}

func (gcalAPI *GCalendarAPIStub) CreateBirthdayEvents(ctx context.Context, contacts []models.Contact) (map[uint]string, error) {
	if gcalAPI.CreateBirthdayEventsError != nil {
		return nil, gcalAPI.CreateBirthdayEventsError
	}
	gcalAPI.calls++

	eventIDs := map[uint]string{}
	for _, contact := range contacts {
		if contact.Birthdate == nil {
			continue
		}

		if contact.CalendarEventID != "" {
			gcalAPI.ClearedEventIDs = append(gcalAPI.ClearedEventIDs, contact.CalendarEventID)
		}
		eventIDs[contact.ID] = fmt.Sprintf("event-%v-%v", contact.ID, gcalAPI.calls)
	}

	return eventIDs, nil
}

func (gcalAPI *GCalendarAPIStub) ClearEvents(ctx context.Context, eventIDs []string) error {
	if gcalAPI.ClearEventsError != nil {
		return gcalAPI.ClearEventsError
	}

	gcalAPI.ClearedEventIDs = append(gcalAPI.ClearedEventIDs, eventIDs...)
	return nil
}
