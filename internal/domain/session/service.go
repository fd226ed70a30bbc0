package session

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nursedesk/nursedesk/internal/platform/dataservice"
	"github.com/nursedesk/nursedesk/pkg/outcome"
)

// Service owns sign-in and sign-out plus the signed-in nurse's profile.
type Service struct {
	auth   dataservice.Auth
	nurses NurseRepository
	log    zerolog.Logger

	mu    sync.RWMutex
	nurse *Nurse
}

func NewService(auth dataservice.Auth, nurses NurseRepository, logger zerolog.Logger) *Service {
	return &Service{auth: auth, nurses: nurses, log: logger}
}

// Login authenticates against the data service and loads the nurse's
// profile. A missing profile row does not fail the login; the account is
// still usable under its email.
func (s *Service) Login(ctx context.Context, email, password string) (*Nurse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, outcome.Validation("email and password are required")
	}

	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, outcome.Auth(err)
	}

	nurse, err := s.nurses.GetByID(ctx, sess.UserID)
	if err != nil {
		s.log.Warn().
			Str("user_id", sess.UserID.String()).
			Err(err).
			Msg("nurse profile unavailable, continuing with auth identity")
		nurse = &Nurse{ID: sess.UserID, Email: sess.Email}
	}

	s.mu.Lock()
	s.nurse = nurse
	s.mu.Unlock()

	s.log.Info().Str("user_id", sess.UserID.String()).Msg("nurse signed in")
	return nurse, nil
}

// Logout ends the session. The local session is gone either way; the
// returned error only reports whether the remote revocation went through.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.nurse = nil
	s.mu.Unlock()

	if err := s.auth.SignOut(ctx); err != nil {
		return outcome.Remote("sign out", err)
	}
	return nil
}

// Nurse returns the signed-in nurse's profile, or nil.
func (s *Service) Nurse() *Nurse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nurse
}

// Session returns the live session, or nil when signed out or expired.
func (s *Service) Session() *dataservice.Session {
	sess := s.auth.CurrentSession()
	if sess == nil || sess.Expired() {
		return nil
	}
	return sess
}

// Reset drops the held profile; called when the session ends outside Logout,
// such as token expiry.
func (s *Service) Reset() {
	s.mu.Lock()
	s.nurse = nil
	s.mu.Unlock()
}
