// Package apiclient implements the queue store capability over the HTTP API.
//
// Every response is validated against its expected shape before use; a
// mismatch is a hard error surfaced to the caller, never silently tolerated.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/peltonpa/youtube-scheduler/internal/domain/user"
	"github.com/peltonpa/youtube-scheduler/internal/store"
)

// ErrInvalidShape indicates a response did not match the expected schema.
var ErrInvalidShape = errors.New("invalid response shape")

// Config represents API client configuration.
type Config struct {
	BaseURL string        // Server base URL, e.g. http://localhost:8080
	Timeout time.Duration // Per-request timeout, defaults to 10s
}

// Client is a queue store backed by the HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check that Client satisfies the store capability.
var _ store.Store = (*Client)(nil)

// New creates an API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// envelope is the server's response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// userPayload mirrors the full user response shape. Pointer fields
// distinguish absent keys from zero values during shape validation.
type userPayload struct {
	ID         *string   `json:"id"`
	Name       *string   `json:"name"`
	VideoQueue *[]string `json:"video_queue"`
}

// queuePayload mirrors the single-user queue response shape.
type queuePayload struct {
	ID         *string   `json:"id"`
	VideoQueue *[]string `json:"video_queue"`
}

// call performs one request and returns the envelope's data payload.
// notFound, when non-nil, is returned for a 404 so callers see the same
// sentinel errors as with a local store.
func (c *Client) call(ctx context.Context, method, path string, body any, notFound error) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		zlog.Error().Str("path", path).Str("body", string(raw)).Msg("apiclient: unparseable response")
		return nil, errors.Wrapf(ErrInvalidShape, "%s %s", method, path)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusNotFound && notFound != nil {
			return nil, notFound
		}
		if env.Error != "" {
			return nil, errors.Newf("api error (%d): %s", resp.StatusCode, env.Error)
		}
		return nil, errors.Newf("api error (%d)", resp.StatusCode)
	}

	if env.Data == nil {
		zlog.Error().Str("path", path).Str("body", string(raw)).Msg("apiclient: missing data field")
		return nil, errors.Wrapf(ErrInvalidShape, "%s %s", method, path)
	}

	return env.Data, nil
}

// CreateOwner creates a new room owner.
func (c *Client) CreateOwner(ctx context.Context) (store.Owner, error) {
	data, err := c.call(ctx, http.MethodPost, "/api/owner", nil, nil)
	if err != nil {
		return store.Owner{}, err
	}

	var payload struct {
		ID *string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == nil || *payload.ID == "" {
		return store.Owner{}, shapeError("owner", data)
	}
	return store.Owner{ID: *payload.ID}, nil
}

// CreateUser creates a user with an empty queue under the given owner.
func (c *Client) CreateUser(ctx context.Context, name, ownerID string) (user.User, error) {
	data, err := c.call(ctx, http.MethodPost, "/api/users", map[string]string{
		"name":    name,
		"ownerId": ownerID,
	}, store.ErrOwnerNotFound)
	if err != nil {
		return user.User{}, err
	}
	return decodeUser(data)
}

// ListUsers returns the owner's users in creation order.
func (c *Client) ListUsers(ctx context.Context, ownerID string) ([]user.User, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/users/"+ownerID, nil, store.ErrOwnerNotFound)
	if err != nil {
		return nil, err
	}

	var payloads []json.RawMessage
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, shapeError("user array", data)
	}

	users := make([]user.User, 0, len(payloads))
	for _, p := range payloads {
		u, err := decodeUser(p)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// ReplaceQueue replaces a user's whole video queue.
func (c *Client) ReplaceQueue(ctx context.Context, userID string, queue []string) (user.User, error) {
	if queue == nil {
		queue = []string{}
	}
	data, err := c.call(ctx, http.MethodPut, "/api/users/update-video-queue", map[string]any{
		"id":          userID,
		"video_queue": queue,
	}, store.ErrUserNotFound)
	if err != nil {
		return user.User{}, err
	}
	return decodeUser(data)
}

// GetQueue returns a single user with their current queue.
func (c *Client) GetQueue(ctx context.Context, userID string) (user.User, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/users/video-queue/"+userID, nil, store.ErrUserNotFound)
	if err != nil {
		return user.User{}, err
	}

	var payload queuePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == nil || payload.VideoQueue == nil {
		return user.User{}, shapeError("video queue", data)
	}
	return user.User{ID: *payload.ID, VideoQueue: *payload.VideoQueue}, nil
}

// ResolveTitle resolves a video id to its display title.
func (c *Client) ResolveTitle(ctx context.Context, videoID string) (string, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/video-id/"+videoID, nil, nil)
	if err != nil {
		return "", err
	}

	var title string
	if err := json.Unmarshal(data, &title); err != nil {
		return "", shapeError("video title", data)
	}
	return title, nil
}

// decodeUser validates and decodes a full user payload.
func decodeUser(data json.RawMessage) (user.User, error) {
	var payload userPayload
	if err := json.Unmarshal(data, &payload); err != nil ||
		payload.ID == nil || payload.Name == nil || payload.VideoQueue == nil {
		return user.User{}, shapeError("user", data)
	}
	return user.User{ID: *payload.ID, Name: *payload.Name, VideoQueue: *payload.VideoQueue}, nil
}

// shapeError logs a diagnostic report and returns a shape mismatch error.
func shapeError(what string, data json.RawMessage) error {
	zlog.Error().Str("payload", string(data)).Msgf("apiclient: invalid %s shape", what)
	return errors.Wrap(ErrInvalidShape, what)
}
