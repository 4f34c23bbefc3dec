package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/planpal/planpal-services/internal/authz"
	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog"
)

// GetGroupEventsService lists the events of a group, ordered by date.
func (svc *Service) GetGroupEventsService(w http.ResponseWriter, r *http.Request) {

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
		logger.Warn().Str("group_id", group.ID).Str("requested_by", claims.Subject).Msg("Access denied: user not in group")
		WriteMessage(w, http.StatusForbidden, "You are not a member of this group")
		return
	}

	events, err := svc.DB.GetGroupEvents(r.Context(), group.ID)
	if err != nil {
		handleStoreErr(w, logger, err, "Group not found")
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	WriteResponse(w, http.StatusOK, events)
}

// CreateEventService schedules an event in a group. Any member may.
func (svc *Service) CreateEventService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	if blank(req.Title) {
		WriteMessage(w, http.StatusBadRequest, "Event title is required!")
		return
	}
	if req.Date.IsZero() {
		WriteMessage(w, http.StatusBadRequest, "Event date is required")
		return
	}

	group, ok := svc.loadGroup(w, r, logger)
	if !ok {
		return
	}

	if !authz.IsMember(claims.Subject, *group) {
		logger.Warn().Str("group_id", group.ID).Str("requested_by", claims.Subject).Msg("Access denied: user not in group")
		WriteMessage(w, http.StatusForbidden, "You are not a member of this group")
		return
	}

	event, err := svc.DB.CreateEvent(r.Context(), models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Date:        req.Date.UTC(),
		Location:    strings.TrimSpace(req.Location),
		Creator:     claims.Subject,
		Group:       group.ID,
	})
	if err != nil {
		handleStoreErr(w, logger, err, "Group not found")
		return
	}

	svc.publish(r.Context(), logger, models.Activity{
		Type:      models.ActivityEventCreated,
		GroupID:   group.ID,
		GroupName: group.Name,
		EventID:   event.ID,
		ActorID:   claims.Subject,
	})

	logger.Info().Str("event_id", event.ID).Str("group_id", group.ID).Msg("Event created successfully")

	location := fmt.Sprintf("/api/events/%s", event.ID)
	WriteResponse(w, http.StatusCreated, event, location)
}

// UpdateEventService edits an event. Creator or group admins only.
func (svc *Service) UpdateEventService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	if blank(req.Title) {
		WriteMessage(w, http.StatusBadRequest, "Event title is required!")
		return
	}

	event, group, ok := svc.loadEditableEvent(w, r, logger, claims.Subject)
	if !ok {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Date.IsZero() {
		req.Date = event.Date
	}
	req.Date = req.Date.UTC()

	updated, err := svc.DB.UpdateEvent(r.Context(), event.ID, req)
	if err != nil {
		handleStoreErr(w, logger, err, "Event not found")
		return
	}

	svc.publish(r.Context(), logger, models.Activity{
		Type:      models.ActivityEventUpdated,
		GroupID:   group.ID,
		GroupName: group.Name,
		EventID:   updated.ID,
		ActorID:   claims.Subject,
	})

	logger.Info().Str("event_id", updated.ID).Msg("Event updated successfully")
	WriteResponse(w, http.StatusOK, models.EventResponse{
		Message: "Event updated successfully",
		Event:   *updated,
	})
}

// DeleteEventService removes an event. Creator or group admins only.
func (svc *Service) DeleteEventService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	event, group, ok := svc.loadEditableEvent(w, r, logger, claims.Subject)
	if !ok {
		return
	}

	if err := svc.DB.DeleteEvent(r.Context(), event.ID); err != nil {
		handleStoreErr(w, logger, err, "Event not found")
		return
	}

	svc.publish(r.Context(), logger, models.Activity{
		Type:      models.ActivityEventDeleted,
		GroupID:   group.ID,
		GroupName: group.Name,
		EventID:   event.ID,
		ActorID:   claims.Subject,
	})

	logger.Info().Str("event_id", event.ID).Msg("Event deleted successfully")
	WriteMessage(w, http.StatusOK, "Event deleted successfully")
}

// loadEditableEvent fetches the event named by the event-id route variable
// and its group, and checks the actor may change it.
func (svc *Service) loadEditableEvent(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, actorID string) (*models.Event, *models.Group, bool) {
	eventID := mux.Vars(r)["event-id"]

	event, err := svc.DB.GetEvent(r.Context(), eventID)
	if err != nil {
		handleStoreErr(w, logger, err, "Event not found")
		return nil, nil, false
	}

	group, err := svc.DB.GetGroup(r.Context(), event.Group)
	if err != nil {
		handleStoreErr(w, logger, err, "Group not found")
		return nil, nil, false
	}

	if !authz.CanEditEvent(actorID, *event, *group) {
		logger.Warn().Str("event_id", event.ID).Str("requested_by", actorID).Msg("Access denied: not the creator or a group admin")
		WriteMessage(w, http.StatusForbidden, "Only the event creator or a group admin can change this event")
		return nil, nil, false
	}

	return event, group, true
}
