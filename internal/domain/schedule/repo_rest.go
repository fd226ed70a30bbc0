package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/nursedesk/nursedesk/internal/platform/dataservice"
)

// selectWithPatient embeds the joined patient row so lists render names
// without a second round trip.
const selectWithPatient = "*,patients(id,first_name,last_name)"

type restAppointmentRepo struct {
	store dataservice.Store
}

// NewAppointmentRepository returns an AppointmentRepository backed by the
// hosted data service.
func NewAppointmentRepository(store dataservice.Store) AppointmentRepository {
	return &restAppointmentRepo{store: store}
}

func (r *restAppointmentRepo) ListByNurseAndStatus(ctx context.Context, nurseID uuid.UUID, status string, ascending bool, limit int) ([]*Appointment, error) {
	orders := []dataservice.Order{
		dataservice.Desc("appointment_date"),
		dataservice.Desc("appointment_time"),
	}
	if ascending {
		orders = []dataservice.Order{
			dataservice.Asc("appointment_date"),
			dataservice.Asc("appointment_time"),
		}
	}

	var appts []*Appointment
	err := r.store.Query(ctx, dataservice.Query{
		Collection: dataservice.CollectionAppointments,
		Select:     selectWithPatient,
		Filters: []dataservice.Filter{
			dataservice.Eq("nurse_id", nurseID.String()),
			dataservice.Eq("status", status),
		},
		Orders: orders,
		Limit:  limit,
	}, &appts)
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *restAppointmentRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	var appts []*Appointment
	err := r.store.Query(ctx, dataservice.Query{
		Collection: dataservice.CollectionAppointments,
		Filters: []dataservice.Filter{
			dataservice.Eq("patient_id", patientID.String()),
		},
		Orders: []dataservice.Order{
			dataservice.Asc("appointment_date"),
			dataservice.Asc("appointment_time"),
		},
	}, &appts)
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *restAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var appts []*Appointment
	err := r.store.Query(ctx, dataservice.Query{
		Collection: dataservice.CollectionAppointments,
		Select:     selectWithPatient,
		Filters:    []dataservice.Filter{dataservice.Eq("id", id.String())},
		Limit:      1,
	}, &appts)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return nil, ErrNotFound
	}
	return appts[0], nil
}

func (r *restAppointmentRepo) Create(ctx context.Context, a *Appointment) error {
	return r.store.Insert(ctx, dataservice.CollectionAppointments, map[string]string{
		"id":               a.ID.String(),
		"patient_id":       a.PatientID.String(),
		"nurse_id":         a.NurseID.String(),
		"appointment_date": a.Date,
		"appointment_time": a.Time,
		"status":           a.Status,
	})
}

func (r *restAppointmentRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.store.Update(ctx, dataservice.CollectionAppointments,
		map[string]string{"status": status},
		[]dataservice.Filter{dataservice.Eq("id", id.String())})
}

func (r *restAppointmentRepo) CountByStatus(ctx context.Context, nurseID uuid.UUID, status, onDate string) (int, error) {
	filters := []dataservice.Filter{
		dataservice.Eq("nurse_id", nurseID.String()),
		dataservice.Eq("status", status),
	}
	if onDate != "" {
		filters = append(filters, dataservice.Eq("appointment_date", onDate))
	}
	return r.store.Count(ctx, dataservice.CollectionAppointments, filters)
}

type restRecordRepo struct {
	store dataservice.Store
}

// NewRecordRepository returns a RecordRepository backed by the hosted data
// service.
func NewRecordRepository(store dataservice.Store) RecordRepository {
	return &restRecordRepo{store: store}
}

func (r *restRecordRepo) Create(ctx context.Context, rec *VisitRecord) error {
	// recorded_at is assigned by the store; it never travels in the insert.
	return r.store.Insert(ctx, dataservice.CollectionRecords, map[string]interface{}{
		"id":             rec.ID.String(),
		"appointment_id": rec.AppointmentID.String(),
		"notes":          rec.Notes,
		"vitals":         rec.Vitals,
	})
}

func (r *restRecordRepo) ListByAppointments(ctx context.Context, appointmentIDs []uuid.UUID) ([]*VisitRecord, error) {
	if len(appointmentIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(appointmentIDs))
	for i, id := range appointmentIDs {
		ids[i] = id.String()
	}

	var recs []*VisitRecord
	err := r.store.Query(ctx, dataservice.Query{
		Collection: dataservice.CollectionRecords,
		Filters:    []dataservice.Filter{dataservice.In("appointment_id", ids)},
	}, &recs)
	if err != nil {
		return nil, err
	}
	return recs, nil
}
