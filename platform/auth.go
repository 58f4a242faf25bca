package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthEvent is the kind of a session-change notification.
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventInitialSession AuthEvent = "INITIAL_SESSION"
)

// Session keys in the local store. Everything under SessionKeyPrefix
// is wiped on sign-out.
const (
	SessionKeyPrefix = "sb."
	SessionKey       = "sb.auth.token"
)

// ListenerFunc receives session-change notifications. The session is
// nil for EventSignedOut and for an absent initial session.
type ListenerFunc func(event AuthEvent, session *Session)

// Session is the platform session as held by this client. The access
// token itself is treated as opaque except for reading its claims.
type Session struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time      `json:"expires_at"`
	UserID       string         `json:"user_id"`
	Email        string         `json:"email,omitempty"`
	Metadata     map[string]any `json:"user_metadata,omitempty"`
}

// Expired reports whether the session's access token is past its
// expiry.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// TokenClaims are the fields this client reads off an access token.
// The token is not signature-verified: the signing secret lives on
// the platform side and the token is only trusted as far as the
// platform that issued it.
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
	Metadata  map[string]any
}

// ParseAccessToken reads the claims of a platform access token
// without verifying its signature.
func ParseAccessToken(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if meta, ok := claims["user_metadata"].(map[string]any); ok {
		out.Metadata = meta
	}
	return out, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID           string         `json:"id"`
		Email        string         `json:"email"`
		UserMetadata map[string]any `json:"user_metadata"`
	} `json:"user"`
}

func sessionFromToken(tr tokenResponse) *Session {
	s := &Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		UserID:       tr.User.ID,
		Email:        tr.User.Email,
		Metadata:     tr.User.UserMetadata,
	}
	if tr.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	// The token's claims fill whatever the response body left out.
	if claims, err := ParseAccessToken(tr.AccessToken); err == nil {
		if s.UserID == "" {
			s.UserID = claims.Subject
		}
		if s.Email == "" {
			s.Email = claims.Email
		}
		if s.Metadata == nil {
			s.Metadata = claims.Metadata
		}
		if s.ExpiresAt.IsZero() {
			s.ExpiresAt = claims.ExpiresAt
		}
	}
	return s
}

// SignUp creates an account on the auth service. Metadata travels as
// the signup "data" and lands in the token's user_metadata. When the
// service returns a session it becomes the active one.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/auth/v1/signup", c.anonKey, payload)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req, "sign up failed")
	if err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, err
	}
	if tr.User.ID == "" {
		return nil, errors.New("User creation failed")
	}

	sess := sessionFromToken(tr)
	if sess.AccessToken != "" {
		if err := c.setSession(sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// SignInWithPassword exchanges credentials for a session.
// Authentication failures carry the service's own message (for
// example "Invalid login credentials") unchanged.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/auth/v1/token?grant_type=password", c.anonKey, payload)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req, "sign in failed")
	if err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, err
	}
	if tr.AccessToken == "" {
		return nil, errors.New("sign in returned no session")
	}

	sess := sessionFromToken(tr)
	if err := c.setSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SignOut revokes the session on the auth service. The local session
// state is cleared and listeners are notified whether or not the
// remote call succeeded; its error is returned for the caller to log.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.RLock()
	sess := c.session
	c.mu.RUnlock()

	var remoteErr error
	if sess != nil {
		req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", sess.AccessToken, nil)
		if err == nil {
			_, remoteErr = c.do(req, "sign out failed")
		} else {
			remoteErr = err
		}
	}

	if err := c.store.ClearPrefix(SessionKeyPrefix); err != nil && remoteErr == nil {
		remoteErr = err
	}

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.emit(EventSignedOut, nil)

	return remoteErr
}

// RestoreSession loads the persisted session, makes it current when
// it is still valid, and notifies listeners of the initial session
// (present or absent). Called once at bootstrap.
func (c *Client) RestoreSession() *Session {
	raw, err := c.store.Get(SessionKey)
	if err != nil {
		c.emit(EventInitialSession, nil)
		return nil
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.AccessToken == "" || sess.Expired() {
		c.emit(EventInitialSession, nil)
		return nil
	}

	c.mu.Lock()
	c.session = &sess
	c.mu.Unlock()
	c.emit(EventInitialSession, &sess)
	return &sess
}

// Session returns the active session, nil when signed out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// OnAuthStateChange registers a session-change listener and returns
// its unsubscribe function. Listeners run on their own goroutines, so
// notification order across events is not guaranteed.
func (c *Client) OnAuthStateChange(fn ListenerFunc) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) setSession(sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := c.store.Set(SessionKey, string(raw)); err != nil {
		return err
	}

	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()
	c.emit(EventSignedIn, sess)
	return nil
}

func (c *Client) emit(event AuthEvent, sess *Session) {
	c.mu.RLock()
	fns := make([]ListenerFunc, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	// Listeners run off the caller's goroutine; a slow listener must
	// not block a sign-in or sign-out.
	for _, fn := range fns {
		go fn(event, sess)
	}
}

// MetadataString reads a string field out of session metadata.
func MetadataString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

// EmailLocalPart returns the part of an email before the "@".
func EmailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
