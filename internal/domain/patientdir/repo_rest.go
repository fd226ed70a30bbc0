package patientdir

import (
	"context"

	"github.com/nursedesk/nursedesk/internal/platform/dataservice"
)

type restPatientRepo struct {
	store dataservice.Store
}

// NewPatientRepository returns a PatientRepository backed by the hosted
// data service.
func NewPatientRepository(store dataservice.Store) PatientRepository {
	return &restPatientRepo{store: store}
}

// No ordering is requested on reads; the directory shows rows in whatever
// order the store returns them.
func (r *restPatientRepo) List(ctx context.Context) ([]*Patient, error) {
	var patients []*Patient
	err := r.store.Query(ctx, dataservice.Query{
		Collection: dataservice.CollectionPatients,
	}, &patients)
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *restPatientRepo) SearchByName(ctx context.Context, term string) ([]*Patient, error) {
	pattern := "%" + term + "%"
	var patients []*Patient
	err := r.store.Query(ctx, dataservice.Query{
		Collection: dataservice.CollectionPatients,
		AnyOf: []dataservice.Filter{
			dataservice.ILike("first_name", pattern),
			dataservice.ILike("last_name", pattern),
		},
	}, &patients)
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *restPatientRepo) Create(ctx context.Context, p *Patient) error {
	record := map[string]string{
		"id":            p.ID.String(),
		"first_name":    p.FirstName,
		"last_name":     p.LastName,
		"date_of_birth": p.DateOfBirth,
	}
	if p.Address != "" {
		record["address"] = p.Address
	}
	if p.Phone != "" {
		record["phone_number"] = p.Phone
	}
	if p.EmergencyContact != "" {
		record["emergency_contact"] = p.EmergencyContact
	}
	return r.store.Insert(ctx, dataservice.CollectionPatients, record)
}
