package authz

import (
	"testing"

	"github.com/planpal/planpal-services/models"
	"github.com/stretchr/testify/assert"
)

var goaTrip = models.Group{
	ID:    "g1",
	Name:  "Goa Trip",
	Owner: "owner",
	Members: []models.Member{
		{User: "admin", Role: models.RoleAdmin},
		{User: "member", Role: models.RoleMember},
	},
}

func TestCanEditEvent(t *testing.T) {
	event := models.Event{ID: "e1", Creator: "member", Group: "g1"}

	tests := []struct {
		name  string
		actor string
		event models.Event
		want  bool
	}{
		{"creator", "member", event, true},
		{"group admin", "admin", event, true},
		{"group owner", "owner", event, true},
		{"plain member not creator", "member", models.Event{Creator: "admin", Group: "g1"}, false},
		{"stranger", "stranger", event, false},
		{"empty actor", "", models.Event{Creator: "", Group: "g1"}, false},
		{"admin of another group", "admin", models.Event{Creator: "x", Group: "g2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEditEvent(tt.actor, tt.event, goaTrip))
		})
	}
}

func TestGroupPredicates(t *testing.T) {
	assert.True(t, IsMember("member", goaTrip))
	assert.True(t, IsMember("owner", goaTrip))
	assert.False(t, IsMember("stranger", goaTrip))

	assert.True(t, CanManageGroup("admin", goaTrip))
	assert.False(t, CanManageGroup("member", goaTrip))

	assert.True(t, CanDeleteGroup("owner", goaTrip))
	assert.False(t, CanDeleteGroup("admin", goaTrip))
	assert.False(t, CanDeleteGroup("", models.Group{}))
}
