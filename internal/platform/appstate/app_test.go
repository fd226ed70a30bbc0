package appstate

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nursedesk/nursedesk/internal/domain/patientdir"
	"github.com/nursedesk/nursedesk/internal/platform/dataservice"
)

// mockClient is an empty but healthy data service: every query succeeds with
// no rows and every count is fixed.
type mockClient struct {
	count    int
	current  *dataservice.Session
	listener func(*dataservice.Session)
}

func (m *mockClient) Query(_ context.Context, _ dataservice.Query, _ interface{}) error {
	return nil
}

func (m *mockClient) Count(_ context.Context, _ string, _ []dataservice.Filter) (int, error) {
	return m.count, nil
}

func (m *mockClient) Insert(_ context.Context, _ string, _ interface{}) error { return nil }

func (m *mockClient) Update(_ context.Context, _ string, _ interface{}, _ []dataservice.Filter) error {
	return nil
}

func (m *mockClient) SignIn(_ context.Context, _, _ string) (*dataservice.Session, error) {
	return m.current, nil
}

func (m *mockClient) SignOut(_ context.Context) error { return nil }

func (m *mockClient) CurrentSession() *dataservice.Session { return m.current }

func (m *mockClient) OnSessionChange(fn func(*dataservice.Session)) func() {
	m.listener = fn
	return func() { m.listener = nil }
}

func TestApp_SignInPrimesViews(t *testing.T) {
	client := &mockClient{count: 7}
	app := New(client, zerolog.Nop())
	defer app.Close()

	if client.listener == nil {
		t.Fatal("app never subscribed to session changes")
	}

	client.current = &dataservice.Session{
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	client.listener(client.current)

	counters := app.Schedule.LastCounters()
	if counters.CompletedToday != 7 || counters.CompletedTotal != 7 {
		t.Errorf("counters after sign-in = %+v", counters)
	}
}

func TestApp_SessionEndResetsEverything(t *testing.T) {
	client := &mockClient{count: 3}
	app := New(client, zerolog.Nop())
	defer app.Close()

	client.current = &dataservice.Session{
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	client.listener(client.current)
	app.Notices.Notify("Patient Ada Okafor added")

	client.current = nil
	client.listener(nil)

	if got := app.Schedule.LastCounters(); got.CompletedTotal != 0 {
		t.Errorf("counters survived session end: %+v", got)
	}
	if len(app.Patients.Patients()) != 0 {
		t.Error("patient view survived session end")
	}
	if len(app.Notices.Active()) != 0 {
		t.Error("notices survived session end")
	}
	if app.Sessions.Nurse() != nil {
		t.Error("nurse profile survived session end")
	}
}

func TestApp_AddPatientRaisesNotice(t *testing.T) {
	client := &mockClient{}
	app := New(client, zerolog.Nop())
	defer app.Close()

	_, err := app.Patients.Add(context.Background(), &patientdir.Patient{
		FirstName:   "Ada",
		LastName:    "Okafor",
		DateOfBirth: "1990-01-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	notices := app.Notices.Active()
	if len(notices) != 1 || notices[0].Message != "Patient Ada Okafor added" {
		t.Errorf("notices = %v", notices)
	}
}
