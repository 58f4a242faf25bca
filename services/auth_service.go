package services

import (
	"context"
	"sync"
	"time"

	"github.com/edgarhdzg/reservas-app/models"
	"github.com/edgarhdzg/reservas-app/platform"
	"github.com/edgarhdzg/reservas-app/utils"
)

const (
	profileTable          = "usuarios"
	defaultProfileTimeout = 2 * time.Second
	backgroundTimeout     = 10 * time.Second
)

// AuthService owns the operator session: the current user profile,
// the loading flag, and the sign-in/sign-up/sign-out operations. It
// subscribes to the platform's session-change stream and keeps the
// profile in sync.
type AuthService struct {
	client *platform.Client

	// ProfileTimeout bounds every profile-store read. When a read
	// misses the deadline the service falls back to a profile
	// synthesized from session metadata.
	ProfileTimeout time.Duration

	mu      sync.RWMutex
	user    *models.User
	loading bool

	unsubscribe func()
}

// SignUpInput are the profile fields collected at registration.
type SignUpInput struct {
	FirstName string
	LastName  string
	Phone     string
	Role      models.Role
}

func NewAuthService(client *platform.Client) *AuthService {
	s := &AuthService{
		client:         client,
		ProfileTimeout: defaultProfileTimeout,
		loading:        true,
	}
	s.unsubscribe = client.OnAuthStateChange(s.handleAuthChange)
	return s
}

// Close detaches the session-change subscription.
func (s *AuthService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// User returns the current profile, nil when signed out.
func (s *AuthService) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether the session bootstrap is still in flight.
func (s *AuthService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// HasRole reports whether the current user's role is among roles.
// Always false while no user is loaded.
func (s *AuthService) HasRole(roles ...models.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	for _, r := range roles {
		if s.user.Role == r {
			return true
		}
	}
	return false
}

func (s *AuthService) setState(user *models.User, loading bool) {
	s.mu.Lock()
	s.user = user
	s.loading = loading
	s.mu.Unlock()
}

// setUserIfSame replaces the current user only when it still belongs
// to the same identity; a stale background write must not clobber a
// newer session.
func (s *AuthService) setUserIfSame(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && s.user.ID == user.ID {
		s.user = user
	}
}

// Bootstrap restores the persisted session and loads the matching
// profile. With no session it just clears the loading flag.
func (s *AuthService) Bootstrap(ctx context.Context) {
	sess := s.client.RestoreSession()
	if sess == nil {
		utils.InfoLogger.Println("no persisted session found")
		s.setState(nil, false)
		return
	}

	utils.InfoLogger.Printf("restored session for user %s", sess.UserID)
	s.setState(s.resolveProfile(ctx, sess), false)
}

// SignIn authenticates against the platform. Authentication failures
// (bad credentials) propagate to the caller unchanged; profile-store
// trouble after a successful sign-in is absorbed by the fallback
// profile.
func (s *AuthService) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}

	s.setState(s.resolveProfile(ctx, sess), false)
	utils.InfoLogger.Printf("user %s signed in", sess.UserID)
	return nil
}

// SignUp creates the account and upserts the profile row. The upsert
// tolerates the platform's own trigger having created the row first.
func (s *AuthService) SignUp(ctx context.Context, email, password string, input SignUpInput) error {
	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}

	sess, err := s.client.SignUp(ctx, email, password, map[string]any{
		"role":     string(role),
		"nombre":   input.FirstName,
		"apellido": input.LastName,
		"telefono": input.Phone,
	})
	if err != nil {
		return err
	}

	profile := models.User{
		ID:        sess.UserID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      role,
		Active:    true,
	}

	var saved models.User
	if err := s.client.From(profileTable).Single().Upsert(ctx, profile, "id_usuario", &saved); err != nil {
		return err
	}

	s.setState(&saved, false)
	utils.InfoLogger.Printf("user %s registered", saved.ID)
	return nil
}

// SignOut revokes the session. The local session state and the
// current user are cleared whether or not the remote call succeeds.
func (s *AuthService) SignOut(ctx context.Context) error {
	err := s.client.SignOut(ctx)
	s.setState(nil, false)
	if err != nil {
		utils.ErrorLogger.Warnf("remote sign-out failed (local session cleared): %v", err)
	}
	return err
}

// resolveProfile fetches the profile within ProfileTimeout. On any
// failure it synthesizes a fallback from session metadata and fires a
// best-effort upsert to heal the profile store in the background.
func (s *AuthService) resolveProfile(ctx context.Context, sess *platform.Session) *models.User {
	fctx, cancel := context.WithTimeout(ctx, s.ProfileTimeout)
	defer cancel()

	profile, err := s.fetchProfile(fctx, sess.UserID)
	if err == nil {
		return profile
	}

	utils.ErrorLogger.Warnf("profile fetch for %s failed, using fallback: %v", sess.UserID, err)
	fallback := fallbackProfile(sess)
	s.upsertInBackground(fallback)
	return fallback
}

func (s *AuthService) fetchProfile(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := s.client.From(profileTable).Eq("id_usuario", userID).Single().Get(ctx, &u); err != nil {
		return nil, err
	}
	u.Role = models.ParseRole(string(u.Role))
	return &u, nil
}

// fallbackProfile builds a profile from session metadata. The display
// name degrades from the metadata to the email's local part; unknown
// roles become customer.
func fallbackProfile(sess *platform.Session) *models.User {
	first := platform.MetadataString(sess.Metadata, "nombre")
	if first == "" {
		first = platform.EmailLocalPart(sess.Email)
	}
	if first == "" {
		first = "Usuario"
	}

	return &models.User{
		ID:        sess.UserID,
		FirstName: first,
		LastName:  platform.MetadataString(sess.Metadata, "apellido"),
		Phone:     platform.MetadataString(sess.Metadata, "telefono"),
		Role:      models.ParseRole(platform.MetadataString(sess.Metadata, "role")),
		Active:    true,
	}
}

// upsertInBackground pushes a fallback profile to the profile store
// without blocking the caller. It may fail silently: a warn log is
// the only trace.
func (s *AuthService) upsertInBackground(profile *models.User) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		var saved models.User
		if err := s.client.From(profileTable).Single().Upsert(ctx, profile, "id_usuario", &saved); err != nil {
			utils.ErrorLogger.Warnf("background profile upsert for %s failed: %v", profile.ID, err)
			return
		}
		saved.Role = models.ParseRole(string(saved.Role))
		s.setUserIfSame(&saved)
	}()
}

// handleAuthChange reacts to the platform's session-change stream. A
// failed profile fetch on a session-present event keeps the existing
// user: it is a transient glitch, not a sign-out.
func (s *AuthService) handleAuthChange(event platform.AuthEvent, sess *platform.Session) {
	switch {
	case event == platform.EventSignedOut:
		s.setState(nil, false)
	case sess == nil:
		s.setState(nil, false)
	default:
		ctx, cancel := context.WithTimeout(context.Background(), s.ProfileTimeout)
		defer cancel()

		profile, err := s.fetchProfile(ctx, sess.UserID)
		if err != nil {
			utils.ErrorLogger.Warnf("profile fetch on %s event failed: %v", event, err)
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
			return
		}
		s.setState(profile, false)
	}
}
