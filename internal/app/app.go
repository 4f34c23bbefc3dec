// Package app wires the client core: one session store shared by the
// navigation shell, the auth modal and the pages, all talking to the
// service through one API client.
package app

import (
	"context"

	"github.com/planpal/planpal-services/client"
	"github.com/planpal/planpal-services/internal/app/authmodal"
	"github.com/planpal/planpal-services/internal/app/nav"
	"github.com/planpal/planpal-services/internal/app/profile"
	"github.com/planpal/planpal-services/internal/app/session"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/planpal/planpal-services/internal/app/trips"
	"github.com/planpal/planpal-services/internal/appconfig"
)

// App is the root of the client. It owns the session; everything else gets
// it by reference.
type App struct {
	Session *session.Store
	API     *client.Client
	Toasts  toast.Notifier

	Shell       *nav.Shell
	Auth        *authmodal.Modal
	CreateGroup *trips.CreateGroup
	Trips       *trips.Trips
	Events      *trips.Events
	Profile     *profile.Page
}

func New(cfg appconfig.ClientConfig, toasts toast.Notifier) *App {
	store := session.NewStore()
	api := client.NewClient(cfg.BaseURL, cfg.Timeout, store)

	shell := nav.NewShell(store, api, toasts)
	modal := authmodal.New(api, store, shell, toasts)
	shell.SetModal(modal)

	return &App{
		Session:     store,
		API:         api,
		Toasts:      toasts,
		Shell:       shell,
		Auth:        modal,
		CreateGroup: trips.NewCreateGroup(api, store, shell, toasts),
		Trips:       trips.NewTrips(api, shell, toasts),
		Events:      trips.NewEvents(api, store, toasts),
		Profile:     profile.New(api, store, toasts),
	}
}

// SignIn signs in through the auth modal, as if the user opened it, filled
// in the sign in tab and submitted.
func (a *App) SignIn(ctx context.Context, email, password string) error {
	if !a.Auth.IsOpen() {
		a.Auth.Open("")
	}
	a.Auth.SetTab(authmodal.SignIn)
	a.Auth.SetForm(authmodal.Form{Email: email, Password: password})
	return a.Auth.Submit(ctx)
}

// Open navigates to a destination, going through the auth modal for
// member-only ones, and loads the page behind it.
func (a *App) Open(ctx context.Context, dest string) error {
	var ok bool
	if nav.AccessOf(dest) == nav.Protected {
		ok = a.Shell.NavigateProtected(dest)
	} else {
		ok = a.Shell.Navigate(dest)
	}
	if !ok {
		return nil
	}

	switch a.Shell.Current() {
	case nav.MyTrip:
		return a.Trips.Load(ctx)
	case nav.MyEvents:
		return a.Events.Load(ctx)
	case nav.Profile, nav.Settings:
		return a.Profile.Load(ctx)
	}
	return nil
}
