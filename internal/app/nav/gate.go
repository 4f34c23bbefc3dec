// Package nav decides where the client may go. The Gate guards member-only
// destinations and the Shell drives navigation, overlays and sign-out.
package nav

import (
	"path"
	"strings"

	"github.com/planpal/planpal-services/models"
)

// Destinations.
const (
	Home     = "/"
	MyTrip   = "/mytrip"
	MyEvents = "/myevents"
	Profile  = "/profile"
	Settings = "/settings"
	Create   = "/create"
)

type Access int

const (
	Unknown Access = iota
	Public
	Protected
)

var destinations = map[string]Access{
	Home:               Public,
	"/dashboard":       Public,
	"/restaurants":     Public,
	"/all-restaurants": Public,
	"/movies":          Public,
	"/temples":         Public,
	"/beaches":         Public,
	"/waterfalls":      Public,
	"/parks":           Public,

	MyTrip:   Protected,
	MyEvents: Protected,
	Profile:  Protected,
	Settings: Protected,
	Create:   Protected,
}

// AccessOf reports who may visit p.
func AccessOf(p string) Access {
	return destinations[normalize(p)]
}

// PublicDestinations lists the category pages anyone may visit.
func PublicDestinations() []string {
	return filter(Public)
}

// ProtectedDestinations lists the member-only pages.
func ProtectedDestinations() []string {
	return filter(Protected)
}

type Decision int

const (
	Allow Decision = iota
	Redirect
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect"
}

// SessionReader is the part of the session the gate reads.
type SessionReader interface {
	Current() (models.UserRef, bool)
}

// Gate decides synchronously. There is no "checking" state: an empty
// session means signed out.
type Gate struct {
	Session SessionReader
}

// Resolve returns where a request for p ends up. Unknown paths, and
// protected paths without a session, redirect to Home.
func (g Gate) Resolve(p string) (string, Decision) {
	p = normalize(p)

	switch destinations[p] {
	case Public:
		return p, Allow
	case Protected:
		if g.Session != nil {
			if _, ok := g.Session.Current(); ok {
				return p, Allow
			}
		}
	}
	return Home, Redirect
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return Home
	}
	return path.Clean("/" + p)
}

func filter(access Access) []string {
	// Stable order for menus and tests
	order := []string{Home, "/dashboard", "/restaurants", "/all-restaurants", "/movies", "/temples",
		"/beaches", "/waterfalls", "/parks", Profile, Settings, MyTrip, Create, MyEvents}

	out := []string{}
	for _, p := range order {
		if destinations[p] == access {
			out = append(out, p)
		}
	}
	return out
}
