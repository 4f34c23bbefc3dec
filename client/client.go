// Package client talks to the PlanPal service. Every authenticated call
// carries the session token as a bearer token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/planpal/planpal-services/models"
)

// TokenSource supplies the bearer token of the current session.
type TokenSource interface {
	Token() string
}

// Client is a client for the PlanPal HTTP API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Tokens:     tokens,
	}
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a user and a token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User.ID == "" {
		return nil, &TransportError{Err: fmt.Errorf("login response is missing the user or token")}
	}
	return &resp, nil
}

// Logout revokes the current token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// CheckAuth returns the user the current token belongs to.
func (c *Client) CheckAuth(ctx context.Context) (*models.UserRef, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodGet, "/checkAuth", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Groups(ctx context.Context) ([]models.Group, error) {
	groups := []models.Group{}
	if err := c.do(ctx, http.MethodGet, "/api/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) CreateGroup(ctx context.Context, req models.GroupRequest) (*models.Group, error) {
	var group models.Group
	if err := c.do(ctx, http.MethodPost, "/api/groups", req, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) UpdateGroup(ctx context.Context, groupID string, req models.GroupRequest) (*models.Group, error) {
	var group models.Group
	if err := c.do(ctx, http.MethodPut, "/api/groups/"+url.PathEscape(groupID), req, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	return c.do(ctx, http.MethodDelete, "/api/groups/"+url.PathEscape(groupID), nil, nil)
}

func (c *Client) GroupEvents(ctx context.Context, groupID string) ([]models.Event, error) {
	events := []models.Event{}
	if err := c.do(ctx, http.MethodGet, "/api/groups/"+url.PathEscape(groupID)+"/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, groupID string, req models.EventRequest) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodPost, "/api/groups/"+url.PathEscape(groupID)+"/events", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent returns the event as stored by the service.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error) {
	var resp models.EventResponse
	if err := c.do(ctx, http.MethodPut, "/api/events/"+url.PathEscape(eventID), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(eventID), nil, nil)
}

func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/User/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser saves the profile and returns the confirmation message with the
// stored user.
func (c *Client) UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.ProfileResponse, error) {
	var resp models.ProfileResponse
	if err := c.do(ctx, http.MethodPut, "/User/"+url.PathEscape(userID), upd, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ChangePassword(ctx context.Context, userID string, req models.PasswordChange) error {
	return c.do(ctx, http.MethodPut, "/User/"+url.PathEscape(userID)+"/password", req, nil)
}

func (c *Client) Availability(ctx context.Context, userID string) ([]string, error) {
	var resp models.Availability
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(userID)+"/availability", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Availability == nil {
		resp.Availability = []string{}
	}
	return resp.Availability, nil
}

func (c *Client) SetAvailability(ctx context.Context, userID string, slots []string) ([]string, error) {
	var resp models.Availability
	if err := c.do(ctx, http.MethodPut, "/"+url.PathEscape(userID)+"/availability", models.Availability{Availability: slots}, &resp); err != nil {
		return nil, err
	}
	return resp.Availability, nil
}

// do sends a JSON request and decodes a JSON response into out when out is
// not nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		var msg models.Response
		_ = json.Unmarshal(respBody, &msg)
		return &RemoteError{Status: resp.StatusCode, Message: msg.Message}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
