package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/delivery/http/middleware"
	"eventboard/internal/domain"
)

const (
	testEventID = "6f1c2b1e-4a59-4b8c-9a54-3f0e2a1d9b10"
	testUserID  = "u-1"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event     *domain.EventDetails
	events    []*domain.EventDetails
	err       error
	lastID    string
	lastUser  string
	lastTitle string
	lastDesc  string
	lastDate  string
	lastPatch domain.EventPatch
	calls     int
}

func (f *fakeEventService) result() (*domain.EventDetails, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) Create(ctx context.Context, callerID, title, description, date string) (*domain.EventDetails, error) {
	f.lastUser, f.lastTitle, f.lastDesc, f.lastDate = callerID, title, description, date
	return f.result()
}

func (f *fakeEventService) Get(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	f.lastID = eventID
	return f.result()
}

func (f *fakeEventService) List(ctx context.Context) ([]*domain.EventDetails, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventService) Update(ctx context.Context, eventID, callerID string, patch domain.EventPatch) (*domain.EventDetails, error) {
	f.lastID, f.lastUser, f.lastPatch = eventID, callerID, patch
	return f.result()
}

func (f *fakeEventService) Delete(ctx context.Context, eventID, callerID string) error {
	f.lastID, f.lastUser = eventID, callerID
	f.calls++
	return f.err
}

func (f *fakeEventService) Attend(ctx context.Context, eventID, callerID string) (*domain.EventDetails, error) {
	f.lastID, f.lastUser = eventID, callerID
	return f.result()
}

func (f *fakeEventService) Unattend(ctx context.Context, eventID, callerID string) (*domain.EventDetails, error) {
	f.lastID, f.lastUser = eventID, callerID
	return f.result()
}

// newEventRequest builds a request with the chi {id} param and, when userID is set, a session user.
func newEventRequest(method, target, id, userID string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	rctx := chi.NewRouteContext()
	if id != "" {
		rctx.URLParams.Add("id", id)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = middleware.SetUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

func sampleEvent() *domain.EventDetails {
	host := domain.Participant{ID: testUserID, Username: "alice", Name: "Alice"}
	return &domain.EventDetails{
		ID:        testEventID,
		Title:     "T",
		Date:      "D",
		Host:      host,
		Attendees: []domain.Participant{host},
	}
}

func TestEventController_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     string
		svc        *fakeEventService
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name:       "success",
			body:       `{"title":"T","date":"D","description":"d"}`,
			userID:     testUserID,
			svc:        &fakeEventService{event: sampleEvent()},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "missing title",
			body:       `{"date":"D"}`,
			userID:     testUserID,
			svc:        &fakeEventService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "host in body is rejected",
			body:       `{"title":"T","date":"D","host":"someone-else"}`,
			userID:     testUserID,
			svc:        &fakeEventService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unauthenticated mutates nothing",
			body:       `{"title":"T","date":"D"}`,
			svc:        &fakeEventService{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "service failure",
			body:       `{"title":"T","date":"D"}`,
			userID:     testUserID,
			svc:        &fakeEventService{err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc)
			req := newEventRequest(http.MethodPost, "/api/events/create", "", tt.userID, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Create(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalls, tt.svc.calls)
			data, apiErr := decodeEnvelope(t, rr.Body)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			assert.Equal(t, testUserID, tt.svc.lastUser)
			assert.Equal(t, "d", tt.svc.lastDesc)
			var ev domain.EventDetails
			require.NoError(t, json.Unmarshal(data["event"], &ev))
			assert.Equal(t, testEventID, ev.ID)
		})
	}
}

func TestEventController_List(t *testing.T) {
	svc := &fakeEventService{events: []*domain.EventDetails{sampleEvent()}}
	ctrl := NewEventController(testLogger, svc)
	rr := httptest.NewRecorder()

	ctrl.List(rr, newEventRequest(http.MethodGet, "/api/events/list", "", testUserID, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	data, apiErr := decodeEnvelope(t, rr.Body)
	require.Nil(t, apiErr)
	var events []domain.EventDetails
	require.NoError(t, json.Unmarshal(data["events"], &events))
	require.Len(t, events, 1)
	assert.Equal(t, "alice", events[0].Host.Username)
}

func TestEventController_Get(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		svc        *fakeEventService
		wantStatus int
		wantCalls  int
	}{
		{"found", testEventID, &fakeEventService{event: sampleEvent()}, http.StatusOK, 1},
		{"missing", testEventID, &fakeEventService{err: domain.ErrEventNotFound}, http.StatusNotFound, 1},
		{"malformed id never reaches service", "not-a-uuid", &fakeEventService{}, http.StatusNotFound, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc)
			rr := httptest.NewRecorder()

			ctrl.Get(rr, newEventRequest(http.MethodGet, "/api/events/"+tt.id, tt.id, testUserID, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalls, tt.svc.calls)
		})
	}
}

func TestEventController_Update(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *fakeEventService
		wantStatus int
		wantCode   string
	}{
		{"host updates", `{"title":"New"}`, &fakeEventService{event: sampleEvent()}, http.StatusOK, ""},
		{"non-host forbidden", `{"title":"New"}`, &fakeEventService{err: domain.ErrNotHost}, http.StatusForbidden, helpers.ErrCodeForbidden},
		{"missing event", `{"title":"New"}`, &fakeEventService{err: domain.ErrEventNotFound}, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"unknown field", `{"attendees":[]}`, &fakeEventService{}, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"host sends an empty body: 200, fields unchanged", "", &fakeEventService{event: sampleEvent()}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc)
			rr := httptest.NewRecorder()

			ctrl.Update(rr, newEventRequest(http.MethodPut, "/api/events/"+testEventID, testEventID, testUserID, strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			_, apiErr := decodeEnvelope(t, rr.Body)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, 1, tt.svc.calls)
			if tt.body == "" {
				assert.Equal(t, domain.EventPatch{}, tt.svc.lastPatch)
				return
			}
			require.NotNil(t, tt.svc.lastPatch.Title)
			assert.Equal(t, "New", *tt.svc.lastPatch.Title)
			assert.Nil(t, tt.svc.lastPatch.Date)
			assert.Equal(t, testUserID, tt.svc.lastUser)
		})
	}
}

func TestEventController_Delete(t *testing.T) {
	tests := []struct {
		name       string
		svc        *fakeEventService
		wantStatus int
	}{
		{"host deletes", &fakeEventService{}, http.StatusOK},
		{"non-host forbidden", &fakeEventService{err: domain.ErrNotHost}, http.StatusForbidden},
		{"missing", &fakeEventService{err: domain.ErrEventNotFound}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc)
			rr := httptest.NewRecorder()

			ctrl.Delete(rr, newEventRequest(http.MethodDelete, "/api/events/"+testEventID, testEventID, testUserID, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"data":{"success":true},"error":null}`, rr.Body.String())
			}
		})
	}
}

func TestEventController_AttendUnattend(t *testing.T) {
	tests := []struct {
		name       string
		unattend   bool
		svc        *fakeEventService
		wantStatus int
		wantCode   string
	}{
		{"attend", false, &fakeEventService{event: sampleEvent()}, http.StatusOK, ""},
		{"attend twice", false, &fakeEventService{err: domain.ErrAlreadyAttending}, http.StatusBadRequest, helpers.ErrCodeConflict},
		{"attend missing", false, &fakeEventService{err: domain.ErrEventNotFound}, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"unattend", true, &fakeEventService{event: sampleEvent()}, http.StatusOK, ""},
		{"host unattend", true, &fakeEventService{err: domain.ErrHostCannotUnattend}, http.StatusBadRequest, helpers.ErrCodeForbidden},
		{"not attending", true, &fakeEventService{err: domain.ErrNotAttending}, http.StatusBadRequest, helpers.ErrCodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.svc)
			rr := httptest.NewRecorder()
			req := newEventRequest(http.MethodPost, "/api/events/"+testEventID+"/attend", testEventID, testUserID, nil)

			if tt.unattend {
				ctrl.Unattend(rr, req)
			} else {
				ctrl.Attend(rr, req)
			}

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, testEventID, tt.svc.lastID)
			assert.Equal(t, testUserID, tt.svc.lastUser)
			_, apiErr := decodeEnvelope(t, rr.Body)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
			}
		})
	}
}
