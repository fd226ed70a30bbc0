package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNoProfile is returned when the auth user has no row in the nurses
// collection.
var ErrNoProfile = errors.New("no nurse profile")

// NurseRepository reads the nurses collection.
type NurseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Nurse, error)
}
