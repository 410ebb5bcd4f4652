// Package auth implements the demo login flow: a fixed identity registry,
// a process-wide session and a persisted session snapshot. This is a demo
// registry with plaintext password comparison, not a credential store; any
// production rework must replace it with hashed credentials.
package auth

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gmahli/fsaas/core/model"
	"github.com/gmahli/fsaas/infra/logger"
)

// Credential pairs a demo password with its user identity.
type Credential struct {
	Password string
	User     model.User
}

// Registry maps login email to credential.
type Registry map[string]Credential

// DemoRegistry returns the three fixed demo identities.
func DemoRegistry() Registry {
	return Registry{
		"manager-gautam@demo.com": {
			Password: "mahli@123",
			User: model.User{
				ID: "mgr-001", Email: "manager-gautam@demo.com", Name: "Gautam Mahli",
				Role:               model.RoleManager,
				AssignedVehicleIDs: []string{"VHC-001", "VHC-002", "VHC-003", "VHC-004", "VHC-005"},
			},
		},
		"operator@demo.com": {
			Password: "Demo@123",
			User: model.User{
				ID: "opr-001", Email: "operator@demo.com", Name: "Deepak Mahli",
				Role:               model.RoleOperator,
				AssignedVehicleIDs: []string{"VHC-001", "VHC-002", "VHC-003"},
			},
		},
		"driver@demo.com": {
			Password: "Demo@123",
			User: model.User{
				ID: "drv-001", Email: "driver@demo.com", Name: "Praveen Mahli",
				Role:               model.RoleDriver,
				AssignedVehicleIDs: []string{"VHC-001"},
			},
		},
	}
}

// SessionStore persists the session snapshot across restarts. It is not a
// security boundary.
type SessionStore interface {
	Load() (model.Session, bool, error)
	Save(model.Session) error
	Clear() error
}

// Store holds the current session and gates dashboard visibility.
type Store struct {
	mu       sync.RWMutex
	registry Registry
	sessions SessionStore
	session  model.Session
	log      logger.Logger
}

// NewStore builds an auth store and restores any persisted session.
// sessions and log may be nil.
func NewStore(registry Registry, sessions SessionStore, log logger.Logger) *Store {
	if log == nil {
		log = logger.NopLogger{}
	}
	s := &Store{registry: registry, sessions: sessions, log: log}
	if sessions != nil {
		if sess, ok, err := sessions.Load(); err != nil {
			log.Warnf("session restore: %v", err)
		} else if ok {
			s.session = sess
		}
	}
	return s
}

// Login checks the email and password against the registry by exact match.
// Any mismatch or unknown email fails; there is no lockout or backoff.
func (s *Store) Login(email, password string) bool {
	cred, ok := s.registry[email]
	if !ok || cred.Password != password {
		return false
	}
	user := cred.User
	sess := model.Session{
		User:          &user,
		Token:         "demo-jwt-" + uuid.NewString(),
		Authenticated: true,
	}
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	s.persist(sess)
	s.log.Infof("login %s role=%s", user.Email, user.Role)
	return true
}

// Logout clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = model.Session{}
	s.mu.Unlock()
	if s.sessions != nil {
		if err := s.sessions.Clear(); err != nil {
			s.log.Warnf("session clear: %v", err)
		}
	}
}

// CheckAuth reports whether a user is logged in with a token.
func (s *Store) CheckAuth() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User != nil && s.session.Token != ""
}

// Session returns a copy of the current session.
func (s *Store) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.session
	if sess.User != nil {
		u := *sess.User
		u.AssignedVehicleIDs = append([]string(nil), u.AssignedVehicleIDs...)
		sess.User = &u
	}
	return sess
}

// User returns the logged-in user, nil when unauthenticated.
func (s *Store) User() *model.User {
	sess := s.Session()
	return sess.User
}

// persist writes the snapshot; failures never block a login.
func (s *Store) persist(sess model.Session) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Save(sess); err != nil {
		s.log.Warnf("session save: %v", err)
	}
}
