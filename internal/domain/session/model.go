package session

import "github.com/google/uuid"

// Nurse maps to the nurses collection: the profile row keyed by the auth
// user id.
type Nurse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// DisplayName is what the dashboard greets the nurse with. When the profile
// row is missing or incomplete the email still identifies the account.
func (n *Nurse) DisplayName() string {
	if n == nil {
		return ""
	}
	if n.FirstName != "" {
		return n.FirstName
	}
	return n.Email
}
