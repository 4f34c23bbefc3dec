package handlers

import (
	"net/http"

	services "github.com/planpal/planpal-services/api/services"
)

// @Summary List group events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param group-id path string true "Group ID"
// @Success 200 {array} models.Event
// @Failure 403 {object} models.Response
// @Router /api/groups/{group-id}/events [get]
func GetGroupEvents(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetGroupEventsService(w, r)
	}
}

// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param group-id path string true "Group ID"
// @Param event body models.EventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /api/groups/{group-id}/events [post]
func CreateEvent(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateEventService(w, r)
	}
}

// @Summary Export group events as iCalendar
// @Tags events
// @Produce text/calendar
// @Security BearerAuth
// @Param group-id path string true "Group ID"
// @Success 200 {string} string
// @Router /api/groups/{group-id}/events.ics [get]
func GroupCalendar(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GroupCalendarService(w, r)
	}
}

// @Summary Update an event
// @Description Event creator or group admins only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event-id path string true "Event ID"
// @Param event body models.EventRequest true "Event"
// @Success 200 {object} models.EventResponse
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /api/events/{event-id} [put]
func UpdateEvent(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateEventService(w, r)
	}
}

// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param event-id path string true "Event ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /api/events/{event-id} [delete]
func DeleteEvent(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteEventService(w, r)
	}
}
