package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventboard/internal/domain"
)

func writeEnvelope(w http.ResponseWriter, status int, data any, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"data": data, "error": nil}
	if code != "" {
		body["data"] = nil
		body["error"] = map[string]string{"code": code, "message": message}
	}
	_ = json.NewEncoder(w).Encode(body)
}

// newAPIServer fakes the handful of endpoints the client tests touch.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	alice := &domain.User{ID: "u-1", Username: "alice", Name: "Alice"}
	event := domain.EventDetails{
		ID: "e-1", Title: "Meetup", Date: "2030-01-02",
		Host:      domain.Participant{ID: "u-1", Name: "Alice"},
		Attendees: []domain.Participant{{ID: "u-1", Name: "Alice"}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "password1" {
			writeEnvelope(w, http.StatusBadRequest, nil, "bad_request", "invalid credentials")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "session-1", Path: "/api"})
		writeEnvelope(w, http.StatusOK, map[string]any{"user": alice}, "", "")
	})
	mux.HandleFunc("GET /api/users/get-auth", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("token"); err != nil || c.Value != "session-1" {
			writeEnvelope(w, http.StatusUnauthorized, nil, "unauthorized", "authentication required")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"user": alice}, "", "")
	})
	mux.HandleFunc("GET /api/events/list", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{"events": []domain.EventDetails{event}}, "", "")
	})
	mux.HandleFunc("GET /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != event.ID {
			writeEnvelope(w, http.StatusNotFound, nil, "not_found", "event not found")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"event": event}, "", "")
	})
	mux.HandleFunc("PUT /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"title": "Renamed"}, body)
		updated := event
		updated.Title = "Renamed"
		writeEnvelope(w, http.StatusOK, map[string]any{"event": updated}, "", "")
	})
	mux.HandleFunc("DELETE /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, nil, "forbidden", "only the host can delete")
	})
	mux.HandleFunc("GET /api/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "://x"} {
		_, err := New(raw, nil)
		assert.Error(t, err, raw)
	}
}

func TestClient_SessionCookieRoundTrip(t *testing.T) {
	srv := newAPIServer(t)
	c, err := New(srv.URL+"/", nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.GetAuth(ctx)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	user, err := c.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	user, err = c.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := newAPIServer(t)
	c, err := New(srv.URL, nil)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "alice", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "bad_request", apiErr.Code)
	assert.Equal(t, "invalid credentials", apiErr.Message)

	err = c.DeleteEvent(context.Background(), "e-1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "forbidden", apiErr.Code)

	err = c.do(context.Background(), http.MethodGet, "/broken", nil, nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestClient_Events(t *testing.T) {
	srv := newAPIServer(t)
	c, err := New(srv.URL, nil)
	require.NoError(t, err)
	ctx := context.Background()

	events, err := c.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Alice", events[0].Host.Name)

	title := "Renamed"
	updated, err := c.UpdateEvent(ctx, "e-1", EventUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	got, err := c.GetEvent(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, "Meetup", got.Title)
	require.Len(t, got.Attendees, 1)

	_, err = c.GetEvent(ctx, "e-404")
	assert.True(t, IsStatus(err, http.StatusNotFound))
}
