// Package platform is the client for the hosted data platform: the
// auth service, the row-level query API and the callable server
// functions, all reached over HTTPS with bearer-token or anon-key
// authorization. One client handle is created at startup and shared
// by every data-access layer.
package platform

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
	"time"
)

// Config carries the two required startup values.
type Config struct {
	URL     string
	AnonKey string
}

// SessionStore is the persistence the client keeps its session in.
// *localstore.Store satisfies it.
type SessionStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	ClearPrefix(prefix string) error
}

// Client is the process-wide connection handle. It is safe for
// concurrent use.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	store   SessionStore

	mu        sync.RWMutex
	session   *Session
	listeners map[int]ListenerFunc
	nextID    int
}

// New builds a client from the given configuration. Both the URL and
// the anon key are mandatory.
func New(cfg Config, store SessionStore) (*Client, error) {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, errors.New("platform configuration is missing")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		store:     store,
		listeners: make(map[int]ListenerFunc),
	}, nil
}

// accessToken returns the current session's token when one is active,
// falling back to the public anon key.
func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session != nil {
		return c.session.AccessToken
	}
	return c.anonKey
}

func (c *Client) newRequest(ctx context.Context, method, url, token string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// do runs the request and returns the response body. A non-2xx status
// becomes an error carrying the most specific message the body
// offers.
func (c *Client) do(req *http.Request, fallback string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(extractMessage(body, fmt.Sprintf("%s (status %d)", fallback, resp.StatusCode)))
	}
	return body, nil
}

// extractMessage digs an error message out of a platform response
// body: a nested error object first, then the top-level message
// fields, then the fallback.
func extractMessage(body []byte, fallback string) string {
	var probe struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		ErrDesc string          `json:"error_description"`
		Msg     string          `json:"msg"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return fallback
	}

	if len(probe.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(probe.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	if probe.Message != "" {
		return probe.Message
	}
	if probe.ErrDesc != "" {
		return probe.ErrDesc
	}
	if probe.Msg != "" {
		return probe.Msg
	}

	// An "error" field that is a bare code (e.g. "invalid_grant") is
	// only worth surfacing when nothing better exists.
	var plain string
	if err := json.Unmarshal(probe.Error, &plain); err == nil && plain != "" {
		return plain
	}
	return fallback
}
