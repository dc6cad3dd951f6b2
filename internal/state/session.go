// Package state holds the client-side state containers: the auth
// session, the expense collection and the draft staging area. Each
// container is an explicitly owned, dependency-injected value; there
// are no package-level singletons.
package state

import (
	"context"
	"sync"

	"outlai/internal/core"
	"outlai/internal/log"
	"outlai/internal/services"
)

// AuthAPI is the slice of the auth service the session needs.
type AuthAPI interface {
	Login(ctx context.Context, creds services.LoginCredentials) (services.LoginResult, error)
	Me(ctx context.Context) (core.User, error)
	Logout(ctx context.Context) error
}

// Session owns the current authenticated user for the lifetime of the
// process. The user is replaced wholesale on login/logout/bootstrap.
type Session struct {
	mu     sync.Mutex
	auth   AuthAPI
	logger *log.Logger

	user  *core.User
	token string
}

func NewSession(auth AuthAPI, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentSession)
	}
	return &Session{auth: auth, logger: logger}
}

// Bootstrap resolves the current user from an existing backend session.
// A failing me() call means "not authenticated", never an error: a
// fresh start with no session cookie is the normal case, not a fault.
func (s *Session) Bootstrap(ctx context.Context) {
	user, err := s.auth.Me(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "Session bootstrap found no authenticated user",
			log.FieldOperation, log.OpBootstrap,
			log.FieldError, err.Error())
		s.setUser(nil)
		return
	}
	s.logger.InfoContext(ctx, "Session restored",
		log.FieldOperation, log.OpBootstrap,
		log.FieldUserID, user.ID)
	s.setUser(&user)
}

// Login establishes a backend session and resolves the user behind it.
func (s *Session) Login(ctx context.Context, creds services.LoginCredentials) error {
	result, err := s.auth.Login(ctx, creds)
	if err != nil {
		s.logger.WarnContext(ctx, "Login failed",
			log.FieldOperation, log.OpLogin,
			log.FieldError, err.Error())
		return err
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.token = result.Token
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Login succeeded",
		log.FieldOperation, log.OpLogin,
		log.FieldUserID, user.ID)
	return nil
}

// Logout tears the session down. The backend call is best-effort: a
// failure is logged but never blocks the local teardown.
func (s *Session) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		s.logger.WarnContext(ctx, "Backend logout failed, clearing local session anyway",
			log.FieldOperation, log.OpLogout,
			log.FieldError, err.Error())
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// User returns a copy of the current user, or nil when unauthenticated.
func (s *Session) User() *core.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// IsAuthenticated reports whether a user is currently resolved.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Token returns the session token from the last login, if any. The
// cookie jar carries the real credential; this is only for expiry
// inspection.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) setUser(user *core.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}
