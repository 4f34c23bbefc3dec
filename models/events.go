package models

import "time"

// Event is a scheduled activity belonging to a group.
type Event struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Creator     string    `json:"creator"`
	Group       string    `json:"group"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventRequest is the payload accepted when creating or editing an event.
type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
}

// EventResponse is returned after an event update.
type EventResponse struct {
	Message string `json:"message"`
	Event   Event  `json:"event"`
}
