// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// The handlers run against the file store in a temp dir and the real
// router, so no external services are needed.
package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"eventcal/internal/handlers"
	"eventcal/internal/models"
	"eventcal/internal/render"
	"eventcal/internal/router"
	"eventcal/internal/store"
)

// testApp bundles the pieces a handler test touches.
type testApp struct {
	store   *store.FileStore
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	renderer, err := render.New("Test Calendar")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	h := router.New(router.Deps{
		Calendar: handlers.NewCalendar(renderer, fs, false),
		Events:   handlers.NewEvents(renderer, fs, false),
		Export:   handlers.NewExport(fs, "Test Calendar"),
	})

	return &testApp{store: fs, handler: h}
}

// get performs a GET request through the full middleware chain.
func (a *testApp) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// postForm performs a POST with a valid CSRF token pair.
func (a *testApp) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	form.Set("csrf_token", "test-token")
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "ec_csrf", Value: "test-token"})
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// seed inserts an event directly through the store.
func (a *testApp) seed(t *testing.T, ev models.Event) models.Event {
	t.Helper()
	if ev.ID == "" {
		ev.ID = "ev-" + ev.Title
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	if err := a.store.Create(context.Background(), ev); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}
