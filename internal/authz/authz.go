// Package authz holds the ownership predicates shared by the service and the
// client. Client side checks only decide what to offer; the service enforces.
package authz

import "github.com/planpal/planpal-services/models"

// IsMember reports whether actor owns or belongs to the group.
func IsMember(actorID string, group models.Group) bool {
	if actorID == "" {
		return false
	}
	if group.Owner == actorID {
		return true
	}
	for _, m := range group.Members {
		if m.User == actorID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether actor owns the group or holds the admin role in it.
func IsAdmin(actorID string, group models.Group) bool {
	if actorID == "" {
		return false
	}
	if group.Owner == actorID {
		return true
	}
	for _, m := range group.Members {
		if m.User == actorID && m.Role == models.RoleAdmin {
			return true
		}
	}
	return false
}

// CanManageGroup reports whether actor may rename or describe the group.
func CanManageGroup(actorID string, group models.Group) bool {
	return IsAdmin(actorID, group)
}

// CanDeleteGroup reports whether actor may delete the group.
func CanDeleteGroup(actorID string, group models.Group) bool {
	return actorID != "" && group.Owner == actorID
}

// CanEditEvent reports whether actor may edit or delete event, which belongs
// to group: the event creator and the group admins may.
func CanEditEvent(actorID string, event models.Event, group models.Group) bool {
	if actorID == "" {
		return false
	}
	if event.Creator == actorID {
		return true
	}
	return event.Group == group.ID && IsAdmin(actorID, group)
}
