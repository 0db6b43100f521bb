// Package client talks to the eventboard REST API and keeps client-side
// caches of the current user and the event list.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"eventboard/internal/domain"
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is a REST client for /api. The session cookie is kept in the
// http.Client's cookie jar between calls.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL (e.g. http://localhost:8080). A nil
// httpClient gets a fresh one; a missing cookie jar is added.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/") + "/api", http: httpClient}, nil
}

// SetTimeout bounds every request, body read included. Zero disables it.
func (c *Client) SetTimeout(d time.Duration) {
	c.http.Timeout = d
}

// EventInput is the body of a create request.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
}

// EventUpdate is the body of an update request; nil fields are left unchanged.
type EventUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
}

type userData struct {
	User *domain.User `json:"user"`
}

type usersData struct {
	Users []*domain.User `json:"users"`
}

type eventData struct {
	Event *domain.EventDetails `json:"event"`
}

type eventsData struct {
	Events []domain.EventDetails `json:"events"`
}

type successData struct {
	Success bool `json:"success"`
}

func (c *Client) Register(ctx context.Context, username, password, name string) (*domain.User, error) {
	var out userData
	body := map[string]string{"username": username, "password": password, "name": name}
	if err := c.do(ctx, http.MethodPost, "/users/register", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var out userData
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/logout", nil, &successData{})
}

// GetAuth returns the user behind the current session cookie.
func (c *Client) GetAuth(ctx context.Context) (*domain.User, error) {
	var out userData
	if err := c.do(ctx, http.MethodGet, "/users/get-auth", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ListUsers returns every user except the caller.
func (c *Client) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var out usersData
	if err := c.do(ctx, http.MethodGet, "/users/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*domain.EventDetails, error) {
	return c.event(ctx, http.MethodPost, "/events/create", in)
}

func (c *Client) ListEvents(ctx context.Context) ([]domain.EventDetails, error) {
	var out eventsData
	if err := c.do(ctx, http.MethodGet, "/events/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*domain.EventDetails, error) {
	return c.event(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil)
}

func (c *Client) UpdateEvent(ctx context.Context, id string, in EventUpdate) (*domain.EventDetails, error) {
	return c.event(ctx, http.MethodPut, "/events/"+url.PathEscape(id), in)
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, &successData{})
}

func (c *Client) Attend(ctx context.Context, id string) (*domain.EventDetails, error) {
	return c.event(ctx, http.MethodPost, "/events/"+url.PathEscape(id)+"/attend", nil)
}

func (c *Client) Unattend(ctx context.Context, id string) (*domain.EventDetails, error) {
	return c.event(ctx, http.MethodPost, "/events/"+url.PathEscape(id)+"/unattend", nil)
}

func (c *Client) event(ctx context.Context, method, path string, body any) (*domain.EventDetails, error) {
	var out eventData
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	if out.Event == nil {
		return nil, fmt.Errorf("%s %s: response has no event", method, path)
	}
	return out.Event, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Code: "unknown", Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode >= 300 || env.Error != nil {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code, apiErr.Message = env.Error.Code, env.Error.Message
		}
		return apiErr
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
