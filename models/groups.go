package models

import "time"

// Member roles within a group.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Member is a group membership. User holds a user id; on creation it may
// also hold an email address which the service resolves to an id.
type Member struct {
	User string `json:"user"`
	Role string `json:"role"`
}

// Group represents a social group planning trips together.
type Group struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GroupRequest is the payload accepted when creating or editing a group.
type GroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Owner       string   `json:"owner,omitempty"`
	Members     []Member `json:"members"`
}
