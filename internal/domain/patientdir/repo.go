package patientdir

import "context"

// PatientRepository reads and writes the patients collection.
type PatientRepository interface {
	List(ctx context.Context) ([]*Patient, error)
	// SearchByName matches the term case-insensitively against either name
	// column.
	SearchByName(ctx context.Context, term string) ([]*Patient, error)
	Create(ctx context.Context, p *Patient) error
}

// Notifier receives short-lived notices for the signed-in user. The
// directory raises one when a patient is added; displaying and expiring
// them is the implementor's concern.
type Notifier interface {
	Notify(message string)
}
