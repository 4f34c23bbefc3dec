package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/planpal/planpal-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGroupCalendar(t *testing.T) {
	events := []models.Event{
		{ID: "e1", Title: "Beach day", Date: eventDate, Location: "Baga"},
		{ID: "e2", Title: "Temple walk", Date: eventDate.Add(24 * time.Hour), Description: "early start"},
	}

	body := GroupCalendar(*testGroup(), events, eventDate)

	cal, err := ical.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2)

	first := cal.Events()[0]
	assert.Equal(t, "e1@planpal", first.Id())
	assert.Equal(t, "Beach day", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "Baga", first.GetProperty(ical.ComponentPropertyLocation).Value)

	start, err := first.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(eventDate))
}

func TestGroupCalendarService(t *testing.T) {
	svc, mockDB, _ := newTestService()
	mockDB.On("GetGroup", mock.Anything, "g1").Return(testGroup(), nil)
	mockDB.On("GetGroupEvents", mock.Anything, "g1").Return([]models.Event{*testEvent()}, nil)

	w := httptest.NewRecorder()
	svc.GroupCalendarService(w, newRequest(t, http.MethodGet, "/api/groups/g1/events.ics", nil, "member", map[string]string{"group-id": "g1"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "goa-trip-g1.ics")
	assert.Contains(t, w.Body.String(), "SUMMARY:Beach day")

	w = httptest.NewRecorder()
	svc.GroupCalendarService(w, newRequest(t, http.MethodGet, "/api/groups/g1/events.ics", nil, "stranger", map[string]string{"group-id": "g1"}))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
