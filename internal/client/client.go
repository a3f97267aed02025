// Package client talks to the remote pin store over HTTP/JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/pinet/pinet/internal/models"
)

// ErrRemote matches every failure reaching the store, transport or status.
var ErrRemote = errors.New("remote store failure")

// Error is a non-2xx answer from the store.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *Error) Is(target error) bool { return target == ErrRemote }

// Client implements the store contract. The bearer token handed out by a
// successful login is kept in memory and attached to later pin writes.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a Client for baseURL. A nil httpClient uses http.DefaultClient,
// which has no timeout; callers bound requests through their context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ListPins handles GET /pins.
func (c *Client) ListPins(ctx context.Context) ([]models.Pin, error) {
	var pins []models.Pin
	if err := c.do(ctx, "list pins", http.MethodGet, "/pins", nil, &pins); err != nil {
		return nil, err
	}
	if pins == nil {
		pins = []models.Pin{}
	}
	return pins, nil
}

// CreatePin handles POST /pins and returns the stored pin.
func (c *Client) CreatePin(ctx context.Context, req models.CreatePinRequest) (models.Pin, error) {
	var pin models.Pin
	if err := c.do(ctx, "create pin", http.MethodPost, "/pins", req, &pin); err != nil {
		return models.Pin{}, err
	}
	return pin, nil
}

// Login handles POST /users/login. The returned token, if any, is remembered.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/users/login", req, &resp); err != nil {
		return models.LoginResponse{}, err
	}
	c.SetToken(resp.Token)
	return resp, nil
}

// Register handles POST /users/register.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	var resp models.RegisterResponse
	if err := c.do(ctx, "register", http.MethodPost, "/users/register", req, &resp); err != nil {
		return models.RegisterResponse{}, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrRemote, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w: %w", op, ErrRemote, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := &Error{Op: op, StatusCode: resp.StatusCode}
		var e models.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			remoteErr.Message = e.Error
		} else {
			remoteErr.Message = strings.TrimSpace(string(data))
		}
		return remoteErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w: %w", op, ErrRemote, err)
	}
	return nil
}
