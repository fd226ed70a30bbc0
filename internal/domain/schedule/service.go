package schedule

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nursedesk/nursedesk/pkg/outcome"
)

// pageSize caps the dashboard lists; the full schedule is never pulled.
const pageSize = 5

// Service owns the scheduling reads and writes plus the last successfully
// loaded view of them. A failed refresh reports its error and leaves the
// held view untouched.
type Service struct {
	appointments AppointmentRepository
	records      RecordRepository
	log          zerolog.Logger
	now          func() time.Time

	mu       sync.RWMutex
	upcoming []*Appointment
	past     []*Appointment
	counters Counters
}

func NewService(appts AppointmentRepository, recs RecordRepository, logger zerolog.Logger) *Service {
	return &Service{
		appointments: appts,
		records:      recs,
		log:          logger,
		now:          time.Now,
	}
}

// RefreshUpcoming loads the nurse's next scheduled appointments, soonest
// first, and replaces the held upcoming view on success.
func (s *Service) RefreshUpcoming(ctx context.Context, nurseID uuid.UUID) ([]*Appointment, error) {
	appts, err := s.appointments.ListByNurseAndStatus(ctx, nurseID, StatusScheduled, true, pageSize)
	if err != nil {
		return nil, outcome.Remote("list upcoming appointments", err)
	}
	appts = dedupe(appts)

	s.mu.Lock()
	s.upcoming = appts
	s.mu.Unlock()
	return appts, nil
}

// RefreshPast loads the nurse's most recent completed appointments and
// replaces the held past view on success.
func (s *Service) RefreshPast(ctx context.Context, nurseID uuid.UUID) ([]*Appointment, error) {
	appts, err := s.appointments.ListByNurseAndStatus(ctx, nurseID, StatusCompleted, false, pageSize)
	if err != nil {
		return nil, outcome.Remote("list past appointments", err)
	}
	appts = dedupe(appts)

	s.mu.Lock()
	s.past = appts
	s.mu.Unlock()
	return appts, nil
}

// RefreshCounters recomputes the dashboard tallies. Both tallies count
// completed appointments; each is its own remote read, and "today" is the
// local clock's date at call time.
func (s *Service) RefreshCounters(ctx context.Context, nurseID uuid.UUID) (Counters, error) {
	today := s.now().Format(dateLayout)
	completedToday, err := s.appointments.CountByStatus(ctx, nurseID, StatusCompleted, today)
	if err != nil {
		return Counters{}, outcome.Remote("count completed appointments today", err)
	}
	total, err := s.appointments.CountByStatus(ctx, nurseID, StatusCompleted, "")
	if err != nil {
		return Counters{}, outcome.Remote("count completed appointments", err)
	}

	counters := Counters{CompletedToday: completedToday, CompletedTotal: total}
	s.mu.Lock()
	s.counters = counters
	s.mu.Unlock()
	return counters, nil
}

// Upcoming returns the last successfully loaded upcoming view.
func (s *Service) Upcoming() []*Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Appointment(nil), s.upcoming...)
}

// Past returns the last successfully loaded past view.
func (s *Service) Past() []*Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Appointment(nil), s.past...)
}

// LastCounters returns the last successfully computed tallies.
func (s *Service) LastCounters() Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters
}

// Reset drops the held views; called when the session ends.
func (s *Service) Reset() {
	s.mu.Lock()
	s.upcoming = nil
	s.past = nil
	s.counters = Counters{}
	s.mu.Unlock()
}

// Book creates a new scheduled appointment. The slot must be complete and
// lie in the future; nothing is sent to the data service otherwise.
func (s *Service) Book(ctx context.Context, nurseID, patientID uuid.UUID, date, timeOfDay string) (*Appointment, error) {
	if patientID == uuid.Nil {
		return nil, outcome.Validation("patient is required")
	}
	if date == "" || timeOfDay == "" {
		return nil, outcome.Validation("appointment date and time are required")
	}
	startsAt, err := combine(date, timeOfDay)
	if err != nil {
		return nil, outcome.Validation("invalid appointment slot: %v", err)
	}
	if !startsAt.After(s.now()) {
		return nil, outcome.Validation("appointment must be scheduled in the future")
	}

	appt := &Appointment{
		ID:        uuid.New(),
		PatientID: patientID,
		NurseID:   nurseID,
		Date:      date,
		Time:      timeOfDay,
		Status:    StatusScheduled,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, outcome.Remote("book appointment", err)
	}

	s.log.Info().
		Str("appointment_id", appt.ID.String()).
		Str("patient_id", patientID.String()).
		Str("date", date).
		Msg("appointment booked")

	// The upcoming view is re-read rather than patched locally; the store is
	// the source of truth for ordering and the page cap.
	if _, err := s.RefreshUpcoming(ctx, nurseID); err != nil {
		s.log.Warn().Err(err).Msg("refresh after booking failed")
	}
	return appt, nil
}

// Get fetches one appointment, used to prime the completion form.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, outcome.Remote("load appointment", err)
	}
	return appt, nil
}

// Complete writes the visit record and then marks the appointment
// completed. The two writes are separate remote calls with no transaction
// across them: if the second fails the record is already durable, so the
// error is a PartialFailure and the caller must not retry the whole thing
// blindly.
func (s *Service) Complete(ctx context.Context, nurseID, appointmentID uuid.UUID, notes string, rawVitals []byte) (*VisitRecord, error) {
	if appointmentID == uuid.Nil {
		return nil, outcome.Validation("appointment is required")
	}
	if strings.TrimSpace(notes) == "" {
		return nil, outcome.Validation("visit notes are required")
	}
	vitals, err := parseVitals(rawVitals)
	if err != nil {
		return nil, outcome.Validation("vitals must be a key/value object: %v", err)
	}

	rec := &VisitRecord{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Notes:         notes,
		Vitals:        vitals,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, outcome.Remote("save visit record", err)
	}

	if err := s.appointments.SetStatus(ctx, appointmentID, StatusCompleted); err != nil {
		s.log.Warn().
			Str("appointment_id", appointmentID.String()).
			Err(err).
			Msg("visit record saved but status update failed")
		return rec, outcome.Partial("visit record saved", "appointment status update", err)
	}

	s.log.Info().Str("appointment_id", appointmentID.String()).Msg("appointment completed")

	// A completion changes both lists and both tallies, so all four views
	// are re-read. A failed refresh keeps the previous view.
	if _, err := s.RefreshUpcoming(ctx, nurseID); err != nil {
		s.log.Warn().Err(err).Msg("refresh upcoming after completion failed")
	}
	if _, err := s.RefreshPast(ctx, nurseID); err != nil {
		s.log.Warn().Err(err).Msg("refresh past after completion failed")
	}
	if _, err := s.RefreshCounters(ctx, nurseID); err != nil {
		s.log.Warn().Err(err).Msg("refresh counters after completion failed")
	}
	return rec, nil
}

// parseVitals decodes the submitted vitals into a key/value map. Values are
// whatever the form sent; absent or null input is an empty map, not an error.
func parseVitals(raw []byte) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return map[string]interface{}{}, nil
	}
	var vitals map[string]interface{}
	if err := json.Unmarshal(raw, &vitals); err != nil {
		return nil, err
	}
	return vitals, nil
}

// History returns every appointment of a patient in chronological order,
// whatever its status, each carrying whatever records were captured for it.
// Callers wanting newest first reverse the slice themselves.
func (s *Service) History(ctx context.Context, patientID uuid.UUID) ([]*Visit, error) {
	if patientID == uuid.Nil {
		return nil, outcome.Validation("patient is required")
	}

	appts, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, outcome.Remote("load visit history", err)
	}
	appts = dedupe(appts)

	ids := make([]uuid.UUID, len(appts))
	for i, a := range appts {
		ids[i] = a.ID
	}
	recs, err := s.records.ListByAppointments(ctx, ids)
	if err != nil {
		return nil, outcome.Remote("load visit records", err)
	}

	byAppt := make(map[uuid.UUID][]*VisitRecord, len(recs))
	for _, r := range recs {
		byAppt[r.AppointmentID] = append(byAppt[r.AppointmentID], r)
	}

	visits := make([]*Visit, len(appts))
	for i, a := range appts {
		visits[i] = &Visit{Appointment: a, Records: byAppt[a.ID]}
	}
	return visits, nil
}

// dedupe drops repeated appointment ids, keeping the first occurrence so the
// remote ordering is preserved.
func dedupe(appts []*Appointment) []*Appointment {
	seen := make(map[uuid.UUID]struct{}, len(appts))
	out := make([]*Appointment, 0, len(appts))
	for _, a := range appts {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
