// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the HTTP routes and middleware chains for the
// calendar. The whole UI sits behind the owner login when auth is
// enabled; otherwise the calendar routes are open and the auth routes
// are absent.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eventcal/internal/handlers"
	"eventcal/internal/middleware"
	"eventcal/internal/session"
	"eventcal/web"
)

// loginRateLimit guards the password and TOTP forms against brute force.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Deps carries everything the router mounts. Auth may be nil; sessions
// must be nil exactly when Auth is.
type Deps struct {
	Sessions *session.Store
	Calendar *handlers.Calendar
	Events   *handlers.Events
	Export   *handlers.Export
	Auth     *handlers.Auth
}

// New creates the configured chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	r.Get("/health", healthHandler)
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)

		if d.Auth != nil {
			limiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)

			r.Get("/setup", d.Auth.SetupPage)
			r.Post("/setup", d.Auth.SetupSubmit)
			r.Get("/login", d.Auth.LoginPage)
			r.With(limiter.Middleware).Post("/login", d.Auth.LoginSubmit)
			r.Get("/2fa/verify", d.Auth.VerifyPage)
			r.With(limiter.Middleware).Post("/2fa/verify", d.Auth.VerifySubmit)
			r.Post("/logout", d.Auth.Logout)
		}

		r.Group(func(r chi.Router) {
			if d.Auth != nil {
				r.Use(middleware.RequireOwner)
			}

			r.Get("/", d.Calendar.MonthView)
			r.Get("/list", d.Calendar.ListView)
			r.Get("/export.ics", d.Export.Feed)

			r.Route("/events", func(r chi.Router) {
				r.Get("/new", d.Events.NewForm)
				r.Post("/", d.Events.Create)
				r.Get("/{id}/edit", d.Events.EditForm)
				r.Post("/{id}", d.Events.Update)
				r.Post("/{id}/delete", d.Events.Delete)
				r.Post("/{id}/move", d.Events.Move)
			})
		})
	})

	return r
}

// staticHandler serves the embedded assets rooted at /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err) // embed layout is fixed at compile time
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
