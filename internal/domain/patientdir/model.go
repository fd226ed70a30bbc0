package patientdir

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients collection. Address, phone, and the
// emergency contact are optional and absent when never supplied.
type Patient struct {
	ID               uuid.UUID `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	DateOfBirth      string    `json:"date_of_birth"`
	Address          string    `json:"address,omitempty"`
	Phone            string    `json:"phone_number,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
