package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/nursedesk/nursedesk/internal/platform/dataservice"
)

type restNurseRepo struct {
	store dataservice.Store
}

// NewNurseRepository returns a NurseRepository backed by the hosted data
// service.
func NewNurseRepository(store dataservice.Store) NurseRepository {
	return &restNurseRepo{store: store}
}

func (r *restNurseRepo) GetByID(ctx context.Context, id uuid.UUID) (*Nurse, error) {
	var nurses []*Nurse
	err := r.store.Query(ctx, dataservice.Query{
		Collection: dataservice.CollectionNurses,
		Filters:    []dataservice.Filter{dataservice.Eq("id", id.String())},
		Limit:      1,
	}, &nurses)
	if err != nil {
		return nil, err
	}
	if len(nurses) == 0 {
		return nil, ErrNoProfile
	}
	return nurses[0], nil
}
