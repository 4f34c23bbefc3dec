package services

import (
	"fmt"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/planpal/planpal-services/internal/authz"
	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog"
)

// eventDuration is used for DTEND since events only carry a start time.
const eventDuration = 2 * time.Hour

// GroupCalendarService exports the events of a group as an iCalendar feed.
func (svc *Service) GroupCalendarService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	group, ok := svc.loadGroup(w, r, logger)
	if !ok {
		return
	}

	if !authz.IsMember(claims.Subject, *group) {
		WriteMessage(w, http.StatusForbidden, "You are not a member of this group")
		return
	}

	events, err := svc.DB.GetGroupEvents(r.Context(), group.ID)
	if err != nil {
		handleStoreErr(w, logger, err, "Group not found")
		return
	}

	body := GroupCalendar(*group, events, time.Now().UTC())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", calendarFilename(*group)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Error().Err(err).Msg("Failed to write calendar")
	}
}

// GroupCalendar renders events as a VCALENDAR named after the group.
func GroupCalendar(group models.Group, events []models.Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//PlanPal//Group Events//EN")
	cal.SetXWRCalName(group.Name)

	for _, e := range events {
		ve := cal.AddEvent(e.ID + "@planpal")
		ve.SetDtStampTime(stamp)
		ve.SetCreatedTime(e.CreatedAt)
		ve.SetStartAt(e.Date)
		ve.SetEndAt(e.Date.Add(eventDuration))
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
	}

	return cal.Serialize()
}

func calendarFilename(group models.Group) string {
	if group.Slug != "" {
		return group.Slug + ".ics"
	}
	return group.ID + ".ics"
}
