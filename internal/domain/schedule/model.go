package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses as stored in the appointments collection.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// PatientRef is the patient row embedded in an appointment read, joined by
// the data service from the patients collection.
type PatientRef struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

func (p *PatientRef) FullName() string {
	if p == nil {
		return ""
	}
	return p.FirstName + " " + p.LastName
}

// Appointment maps to the appointments collection. Date and time-of-day are
// kept as the collection's string columns; StartsAt combines them when a
// wall-clock comparison is needed.
type Appointment struct {
	ID        uuid.UUID   `json:"id"`
	PatientID uuid.UUID   `json:"patient_id"`
	NurseID   uuid.UUID   `json:"nurse_id"`
	Date      string      `json:"appointment_date"`
	Time      string      `json:"appointment_time"`
	Status    string      `json:"status"`
	Patient   *PatientRef `json:"patients,omitempty"`
}

// StartsAt resolves the appointment's date and time-of-day to a local
// wall-clock instant. The time column may carry seconds or not.
func (a *Appointment) StartsAt() (time.Time, error) {
	return combine(a.Date, a.Time)
}

func combine(date, timeOfDay string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	for _, layout := range []string{timeLayout, "15:04:05"} {
		if t, err := time.ParseInLocation(layout, timeOfDay, time.Local); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q", timeOfDay)
}

// VisitRecord maps to the patient_records collection: the clinical note and
// vitals captured when an appointment is completed. Vitals carry whatever
// key/value pairs the form submitted. RecordedAt is assigned by the store
// and only ever read back.
type VisitRecord struct {
	ID            uuid.UUID              `json:"id"`
	AppointmentID uuid.UUID              `json:"appointment_id"`
	Notes         string                 `json:"notes"`
	Vitals        map[string]interface{} `json:"vitals,omitempty"`
	RecordedAt    time.Time              `json:"recorded_at,omitempty"`
}

// Visit pairs a completed appointment with the records captured for it,
// which may be none.
type Visit struct {
	Appointment *Appointment   `json:"appointment"`
	Records     []*VisitRecord `json:"records,omitempty"`
}

// Counters are the dashboard tallies for one nurse, both over completed
// appointments only.
type Counters struct {
	CompletedToday int `json:"completed_today"`
	CompletedTotal int `json:"completed_total"`
}
