package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"salas/internal/config"
	"salas/internal/models"
	"salas/internal/repository"
	"salas/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recorded
}

func (f *fakeAPI) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) handler() http.Handler {
	room := models.Room{ID: 3, Name: "Sala 3", Location: "Piso 1", Capacity: 6, Available: true}
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/token/":
			if rec.Body["password"] != "secret" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"access": "tok-123"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/rooms/":
			writeJSON(w, http.StatusOK, []models.Room{room})
		case r.Method == http.MethodGet && r.URL.Path == "/api/rooms/3/":
			writeJSON(w, http.StatusOK, room)
		case r.Method == http.MethodGet && r.URL.Path == "/api/reservations/":
			writeJSON(w, http.StatusOK, []models.Reservation{{ID: 5, Room: room}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/reservations/":
			writeJSON(w, http.StatusCreated, map[string]any{
				"id":         9,
				"room":       room,
				"user":       map[string]any{"id": 1, "username": "ana"},
				"start_time": rec.Body["start_time"],
				"end_time":   rec.Body["end_time"],
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/reservations/5/":
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		}
	})
}

func newTestApp(t *testing.T) (*app, *fakeAPI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("SALAS_TOKEN", "")
	t.Setenv("SALAS_PASSWORD", "")

	fake := &fakeAPI{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		API: config.APIConfig{BaseURL: srv.URL + "/api", TokenEndpoint: models.EndpointToken},
		Session: config.SessionConfig{
			Backend:    config.SessionBackendMemory,
			Profile:    models.DefaultSessionProfile,
			DefaultTTL: time.Hour,
		},
		Exports: config.ExportConfig{Path: t.TempDir()},
	}
	logger := zerolog.Nop()

	a, err := newApp(context.Background(), cfg, repository.NewMemoryCredentialRepository(), &logger)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	a.out = out
	return a, fake, out
}

func TestApp_LoginFlow(t *testing.T) {
	a, fake, out := newTestApp(t)
	ctx := context.Background()

	_, err := a.auth.Whoami()
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)

	require.Error(t, a.run(ctx, []string{"login", "-u", "ana", "-p", "wrong"}))

	require.NoError(t, a.run(ctx, []string{"login", "-u", "ana", "-p", "secret"}))
	var cred models.Credential
	require.NoError(t, json.Unmarshal(out.Bytes(), &cred))
	assert.Equal(t, "tok-123", cred.Token)
	assert.Equal(t, "ana", cred.Username)
	assert.Equal(t, "/api/token/", fake.last().Path)

	require.Error(t, a.run(ctx, []string{"login", "-u", "ana", "-p", "typo"}))
	current, err := a.auth.Whoami()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", current.Token)

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"rooms"}))
	assert.Equal(t, "Bearer tok-123", fake.last().Auth)
	assert.Contains(t, out.String(), "Sala 3")

	require.NoError(t, a.run(ctx, []string{"room", "3"}))
	assert.Empty(t, fake.last().Auth)

	require.NoError(t, a.run(ctx, []string{"cancel", "5"}))
	assert.Equal(t, http.MethodDelete, fake.last().Method)
	assert.Equal(t, "Bearer tok-123", fake.last().Auth)

	require.NoError(t, a.run(ctx, []string{"logout"}))
	_, err = a.auth.Whoami()
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)
}

func TestApp_ReservationsFilter(t *testing.T) {
	a, fake, _ := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"reservations", "-room", "3"}))
	assert.Equal(t, "room=3", fake.last().Query)
	assert.Empty(t, fake.last().Auth)
}

func TestApp_Reserve(t *testing.T) {
	a, fake, out := newTestApp(t)
	ctx := context.Background()

	err := a.run(ctx, []string{"reserve", "-room", "3", "-start-date", "2024-05-01", "-start-time", "9:30", "-end-time", "10:15"})
	assert.ErrorIs(t, err, service.ErrInvalidDraft)
	assert.Equal(t, http.MethodGet, fake.last().Method)

	require.NoError(t, a.run(ctx, []string{
		"reserve", "-room", "3",
		"-start-date", "2024-05-01", "-start-time", "09:30",
		"-end-time", "10:15",
	}))
	req := fake.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/reservations/", req.Path)
	assert.EqualValues(t, 3, req.Body["room_id"])

	start, err := time.Parse(time.RFC3339, req.Body["start_time"].(string))
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)))
	end, err := time.Parse(time.RFC3339, req.Body["end_time"].(string))
	require.NoError(t, err)
	assert.True(t, end.Equal(time.Date(2024, 5, 1, 10, 15, 0, 0, time.Local)))

	assert.Contains(t, out.String(), `"id": 9`)

	err = a.run(ctx, []string{"reserve", "-start-date", "2024-05-01"})
	assert.ErrorIs(t, err, errUsage)
}

func TestApp_Export(t *testing.T) {
	a, _, out := newTestApp(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, a.run(context.Background(), []string{"export", "-o", path}))
	assert.Contains(t, out.String(), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Reservations")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestApp_Usage(t *testing.T) {
	a, _, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"help"}))
	assert.Contains(t, out.String(), "session.backend=redis")
	assert.Contains(t, out.String(), "SALAS_TOKEN")

	assert.ErrorIs(t, a.run(ctx, nil), errUsage)
	assert.ErrorIs(t, a.run(ctx, []string{"bogus"}), errUsage)
	assert.ErrorIs(t, a.run(ctx, []string{"room"}), errUsage)
	assert.ErrorIs(t, a.run(ctx, []string{"cancel", "x"}), errUsage)
}
