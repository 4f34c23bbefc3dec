package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts a throwaway PostgreSQL and returns its DSN.
func setupPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "planpal",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "could not start container")
	t.Cleanup(func() { postgresC.Terminate(ctx) })

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/planpal?sslmode=disable", host, port.Port())
}

func TestPlanDB_Postgres(t *testing.T) {
	if testing.Short() || os.Getenv("PLANPAL_INTEGRATION") == "" {
		t.Skip("set PLANPAL_INTEGRATION=1 to run against a Postgres container")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	planDB, err := NewPlanDB(setupPostgresContainer(t), &logger)
	require.NoError(t, err)
	defer planDB.Close()

	require.NoError(t, planDB.Migrate())
	ctx := context.Background()

	owner, err := planDB.CreateUser(ctx, models.User{Name: "Asha", Email: "asha@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	friend, err := planDB.CreateUser(ctx, models.User{Name: "Ravi", Email: "ravi@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = planDB.CreateUser(ctx, models.User{Name: "Dup", Email: "ASHA@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	group, err := planDB.CreateGroup(ctx, models.Group{
		Name:    "Goa Trip",
		Owner:   owner.ID,
		Members: []models.Member{{User: friend.ID, Role: models.RoleMember}},
	})
	require.NoError(t, err)

	groups, err := planDB.GetUserGroups(ctx, friend.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, group.ID, groups[0].ID)

	date := time.Now().UTC().Add(6 * time.Hour).Truncate(time.Second)
	event, err := planDB.CreateEvent(ctx, models.Event{Title: "Beach day", Date: date, Creator: friend.ID, Group: group.ID})
	require.NoError(t, err)

	upcoming, err := planDB.GetUpcomingEvents(ctx, time.Now().UTC(), time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.NoError(t, planDB.MarkReminded(ctx, event.ID, time.Now().UTC()))

	upcoming, err = planDB.GetUpcomingEvents(ctx, time.Now().UTC(), time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, upcoming)

	require.NoError(t, planDB.SetAvailability(ctx, owner.ID, []string{"weekends", "evenings"}))
	slots, err := planDB.GetAvailability(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"weekends", "evenings"}, slots)

	require.NoError(t, planDB.DeleteGroup(ctx, group.ID))
	_, err = planDB.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
