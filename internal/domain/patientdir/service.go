package patientdir

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nursedesk/nursedesk/pkg/outcome"
)

const dobLayout = "2006-01-02"

// Service owns the patient directory view. The held list is whatever the
// last successful load or search returned; a failed read leaves it alone.
type Service struct {
	patients PatientRepository
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time

	mu   sync.RWMutex
	view []*Patient
}

func NewService(patients PatientRepository, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		patients: patients,
		notifier: notifier,
		log:      logger,
		now:      time.Now,
	}
}

// RefreshAll loads the full directory and replaces the held view on success.
func (s *Service) RefreshAll(ctx context.Context) ([]*Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, outcome.Remote("list patients", err)
	}
	s.setView(patients)
	return patients, nil
}

// Search filters the directory by name. A blank term is the full directory,
// so clearing a search box restores the unfiltered view.
func (s *Service) Search(ctx context.Context, term string) ([]*Patient, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.RefreshAll(ctx)
	}
	patients, err := s.patients.SearchByName(ctx, term)
	if err != nil {
		return nil, outcome.Remote("search patients", err)
	}
	s.setView(patients)
	return patients, nil
}

// Add registers a new patient. First name, last name, and a valid
// non-future date of birth are required; nothing is sent otherwise. The
// outcome is announced either way through the notifier.
func (s *Service) Add(ctx context.Context, p *Patient) (*Patient, error) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.DateOfBirth = strings.TrimSpace(p.DateOfBirth)

	if p.FirstName == "" || p.LastName == "" || p.DateOfBirth == "" {
		return nil, s.addFailed(outcome.Validation("first name, last name, and date of birth are required"))
	}
	dob, err := time.ParseInLocation(dobLayout, p.DateOfBirth, time.Local)
	if err != nil {
		return nil, s.addFailed(outcome.Validation("invalid date of birth %q", p.DateOfBirth))
	}
	if dob.After(s.now()) {
		return nil, s.addFailed(outcome.Validation("date of birth cannot be in the future"))
	}

	p.ID = uuid.New()
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, s.addFailed(outcome.Remote("add patient", err))
	}

	s.log.Info().Str("patient_id", p.ID.String()).Msg("patient added")
	s.notify("Patient " + p.FullName() + " added")

	// The directory is re-read rather than patched locally.
	if _, err := s.RefreshAll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("refresh after add failed")
	}
	return p, nil
}

func (s *Service) addFailed(err error) error {
	s.notify("Could not add patient: " + err.Error())
	return err
}

func (s *Service) notify(message string) {
	if s.notifier != nil {
		s.notifier.Notify(message)
	}
}

// Patients returns the held directory view.
func (s *Service) Patients() []*Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Patient(nil), s.view...)
}

// Reset drops the held view; called when the session ends.
func (s *Service) Reset() {
	s.setView(nil)
}

func (s *Service) setView(patients []*Patient) {
	s.mu.Lock()
	s.view = patients
	s.mu.Unlock()
}
