package schedule

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an appointment id matches no row visible to
// the current session.
var ErrNotFound = errors.New("appointment not found")

// AppointmentRepository reads and writes the appointments collection.
type AppointmentRepository interface {
	// ListByNurseAndStatus returns a nurse's appointments in the given
	// status, ordered by date then time of day, ascending or descending.
	// limit 0 means no cap.
	ListByNurseAndStatus(ctx context.Context, nurseID uuid.UUID, status string, ascending bool, limit int) ([]*Appointment, error)
	// ListByPatient returns every appointment of a patient regardless of
	// status, oldest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	// CountByStatus tallies a nurse's appointments in a status, optionally
	// restricted to a single date (empty means any date).
	CountByStatus(ctx context.Context, nurseID uuid.UUID, status, onDate string) (int, error)
}

// RecordRepository reads and writes the patient_records collection.
type RecordRepository interface {
	Create(ctx context.Context, r *VisitRecord) error
	ListByAppointments(ctx context.Context, appointmentIDs []uuid.UUID) ([]*VisitRecord, error)
}
