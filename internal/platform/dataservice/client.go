// Package dataservice is the client for the hosted data service that owns
// all persistence and authentication: four remote collections behind a
// PostgREST-style REST interface plus a password-credential auth endpoint.
// Row-level security on the service side is keyed to the session's access
// token, so every query runs with whatever visibility that token grants.
package dataservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Collection names on the remote store.
const (
	CollectionPatients     = "patients"
	CollectionAppointments = "appointments"
	CollectionRecords      = "patient_records"
	CollectionNurses       = "nurses"
)

// Filter is a single column predicate, e.g. {Column: "status", Op: "eq",
// Value: "Scheduled"}. Op uses the service's operator names (eq, ilike, ...).
type Filter struct {
	Column string
	Op     string
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) Filter { return Filter{Column: column, Op: "eq", Value: value} }

// ILike builds a case-insensitive pattern filter. The value is used as-is,
// so callers supply their own wildcards.
func ILike(column, pattern string) Filter {
	return Filter{Column: column, Op: "ilike", Value: pattern}
}

// In builds a membership filter over the given values.
func In(column string, values []string) Filter {
	return Filter{Column: column, Op: "in", Value: "(" + strings.Join(values, ",") + ")"}
}

// Order is one ordering term.
type Order struct {
	Column    string
	Ascending bool
}

// Asc orders ascending on column.
func Asc(column string) Order { return Order{Column: column, Ascending: true} }

// Desc orders descending on column.
func Desc(column string) Order { return Order{Column: column, Ascending: false} }

// Query describes one read against a collection. Select uses the service's
// column-selection syntax and may embed joined collections, e.g.
// "id, status, patients(first_name, last_name)". Filters are ANDed; AnyOf,
// when present, is a single ORed group alongside them. Limit 0 means
// unbounded.
type Query struct {
	Collection string
	Select     string
	Filters    []Filter
	AnyOf      []Filter
	Orders     []Order
	Limit      int
}

// Store issues reads and writes against the remote collections. Every call
// is a single request; there are no transactions across calls, no retries,
// and no client-side timeout — a call that never resolves blocks its caller.
type Store interface {
	// Query runs q and decodes the returned rows into dest, which must be a
	// pointer to a slice.
	Query(ctx context.Context, q Query, dest interface{}) error
	// Count returns the number of rows matching filters. It counts all
	// matching rows regardless of any listing cap.
	Count(ctx context.Context, collection string, filters []Filter) (int, error)
	// Insert writes one record.
	Insert(ctx context.Context, collection string, record interface{}) error
	// Update applies patch to every row matching filters.
	Update(ctx context.Context, collection string, patch interface{}, filters []Filter) error
}

// Session is the ephemeral authenticated identity. UserID doubles as the
// nurse id in the appointments collection.
type Session struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the session's access token has passed its expiry.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Auth is the credential side of the service.
type Auth interface {
	// SignIn exchanges credentials for a session. The returned session
	// becomes the current one and is announced to session-change listeners.
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// SignOut revokes the session remotely. The local session is discarded
	// and listeners notified with nil even when the remote call fails.
	SignOut(ctx context.Context) error
	// CurrentSession returns the live session, or nil.
	CurrentSession() *Session
	// OnSessionChange registers fn to be called with the new session (nil on
	// sign-out or expiry). The returned function unsubscribes.
	OnSessionChange(fn func(*Session)) (unsubscribe func())
}

// Client is the full capability surface the domain operations consume.
type Client interface {
	Auth
	Store
}
