package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	services "github.com/planpal/planpal-services/api/services"
)

// RegisterRoutes mounts the PlanPal API on r. Routes other than
// registration, login and the health check sit behind auth.
func RegisterRoutes(r *mux.Router, svc *services.Service, auth mux.MiddlewareFunc) {

	// Public routes
	r.HandleFunc("/register", Register(svc)).Methods(http.MethodPost)
	r.HandleFunc("/login", Login(svc)).Methods(http.MethodPost)
	r.HandleFunc("/healthz", Health(svc)).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.Use(auth)

	// Session routes
	protected.HandleFunc("/logout", Logout(svc)).Methods(http.MethodPost)
	protected.HandleFunc("/checkAuth", CheckAuth(svc)).Methods(http.MethodGet)

	// Group routes
	protected.HandleFunc("/api/groups", GetGroups(svc)).Methods(http.MethodGet)
	protected.HandleFunc("/api/groups", CreateGroup(svc)).Methods(http.MethodPost)
	protected.HandleFunc("/api/groups/{group-id}", GetGroup(svc)).Methods(http.MethodGet)
	protected.HandleFunc("/api/groups/{group-id}", UpdateGroup(svc)).Methods(http.MethodPut)
	protected.HandleFunc("/api/groups/{group-id}", DeleteGroup(svc)).Methods(http.MethodDelete)

	// Event routes
	protected.HandleFunc("/api/groups/{group-id}/events", GetGroupEvents(svc)).Methods(http.MethodGet)
	protected.HandleFunc("/api/groups/{group-id}/events", CreateEvent(svc)).Methods(http.MethodPost)
	protected.HandleFunc("/api/groups/{group-id}/events.ics", GroupCalendar(svc)).Methods(http.MethodGet)
	protected.HandleFunc("/api/events/{event-id}", UpdateEvent(svc)).Methods(http.MethodPut)
	protected.HandleFunc("/api/events/{event-id}", DeleteEvent(svc)).Methods(http.MethodDelete)

	// Profile routes
	protected.HandleFunc("/User/{user-id}", GetUser(svc)).Methods(http.MethodGet)
	protected.HandleFunc("/User/{user-id}", UpdateUser(svc)).Methods(http.MethodPut)
	protected.HandleFunc("/UpdateUser/{user-id}", UpdateUser(svc)).Methods(http.MethodPut)
	protected.HandleFunc("/User/{user-id}/password", ChangePassword(svc)).Methods(http.MethodPut)
	protected.HandleFunc("/{user-id}/availability", GetAvailability(svc)).Methods(http.MethodGet)
	protected.HandleFunc("/{user-id}/availability", UpdateAvailability(svc)).Methods(http.MethodPut)
}
