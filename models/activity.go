package models

// Activity types published on the activity topic.
const (
	ActivityGroupCreated  = "group.created"
	ActivityGroupDeleted  = "group.deleted"
	ActivityEventCreated  = "event.created"
	ActivityEventUpdated  = "event.updated"
	ActivityEventDeleted  = "event.deleted"
	ActivityEventReminder = "event.reminder"
)

// Activity is the message published whenever a group or event changes.
type Activity struct {
	Type      string   `json:"type"`
	GroupID   string   `json:"groupId"`
	GroupName string   `json:"groupName,omitempty"`
	EventID   string   `json:"eventId,omitempty"`
	ActorID   string   `json:"actorId,omitempty"`
	Members   []string `json:"members,omitempty"`
	Timestamp int64    `json:"timestamp"`
}
