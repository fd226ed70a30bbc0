package patientdir

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nursedesk/nursedesk/pkg/outcome"
)

type mockPatientRepo struct {
	patients  []*Patient
	listErr   error
	searched  string
	results   []*Patient
	searchErr error
	created   []*Patient
	createErr error
}

func (m *mockPatientRepo) List(_ context.Context) ([]*Patient, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append(append([]*Patient(nil), m.patients...), m.created...), nil
}

func (m *mockPatientRepo) SearchByName(_ context.Context, term string) ([]*Patient, error) {
	m.searched = term
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, p)
	return nil
}

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(msg string) { m.messages = append(m.messages, msg) }

func TestSearch_BlankTermIsFullDirectory(t *testing.T) {
	repo := &mockPatientRepo{patients: []*Patient{
		{FirstName: "Ada", LastName: "Okafor"},
		{FirstName: "Ben", LastName: "Ruiz"},
	}}
	svc := NewService(repo, nil, zerolog.Nop())

	got, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected full directory, got %d patients", len(got))
	}
	if repo.searched != "" {
		t.Error("blank term should not reach the search path")
	}
}

func TestSearch_TrimsTermAndReplacesView(t *testing.T) {
	repo := &mockPatientRepo{results: []*Patient{{FirstName: "Ada"}}}
	svc := NewService(repo, nil, zerolog.Nop())

	got, err := svc.Search(context.Background(), " ada ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.searched != "ada" {
		t.Errorf("searched term = %q", repo.searched)
	}
	if len(got) != 1 || len(svc.Patients()) != 1 {
		t.Error("search results did not replace the held view")
	}
}

func TestSearch_FailureLeavesViewUnchanged(t *testing.T) {
	repo := &mockPatientRepo{patients: []*Patient{{FirstName: "Ada"}}}
	svc := NewService(repo, nil, zerolog.Nop())
	if _, err := svc.RefreshAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.searchErr = fmt.Errorf("boom")
	if _, err := svc.Search(context.Background(), "ada"); !outcome.IsRemote(err) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if len(svc.Patients()) != 1 {
		t.Error("held view changed after failed search")
	}
}

func TestAdd_Validation(t *testing.T) {
	svc := NewService(&mockPatientRepo{}, nil, zerolog.Nop())
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)
	}

	cases := []struct {
		name    string
		patient Patient
	}{
		{"missing first name", Patient{LastName: "Okafor", DateOfBirth: "1990-01-01"}},
		{"missing last name", Patient{FirstName: "Ada", DateOfBirth: "1990-01-01"}},
		{"missing dob", Patient{FirstName: "Ada", LastName: "Okafor"}},
		{"whitespace only", Patient{FirstName: "  ", LastName: "Okafor", DateOfBirth: "1990-01-01"}},
		{"unparseable dob", Patient{FirstName: "Ada", LastName: "Okafor", DateOfBirth: "Jan 1 1990"}},
		{"future dob", Patient{FirstName: "Ada", LastName: "Okafor", DateOfBirth: "2027-01-01"}},
	}
	for _, tc := range cases {
		p := tc.patient
		if _, err := svc.Add(context.Background(), &p); !outcome.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestAdd_CreatesAndNotifies(t *testing.T) {
	repo := &mockPatientRepo{}
	notifier := &mockNotifier{}
	svc := NewService(repo, notifier, zerolog.Nop())

	added, err := svc.Add(context.Background(), &Patient{
		FirstName:   " Ada ",
		LastName:    "Okafor",
		DateOfBirth: "1990-01-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added.FirstName != "Ada" {
		t.Errorf("first name not trimmed: %q", added.FirstName)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one create, got %d", len(repo.created))
	}
	if len(notifier.messages) != 1 || notifier.messages[0] != "Patient Ada Okafor added" {
		t.Errorf("notifications = %v", notifier.messages)
	}
	if len(svc.Patients()) != 1 {
		t.Error("directory was not re-read after the add")
	}
}

func TestAdd_RemoteFailureRaisesErrorNotice(t *testing.T) {
	repo := &mockPatientRepo{createErr: fmt.Errorf("insert denied")}
	notifier := &mockNotifier{}
	svc := NewService(repo, notifier, zerolog.Nop())

	_, err := svc.Add(context.Background(), &Patient{
		FirstName: "Ada", LastName: "Okafor", DateOfBirth: "1990-01-01",
	})
	if !outcome.IsRemote(err) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if len(notifier.messages) != 1 || !strings.HasPrefix(notifier.messages[0], "Could not add patient") {
		t.Errorf("notifications = %v", notifier.messages)
	}
	if len(svc.Patients()) != 0 {
		t.Error("failed add reached the held view")
	}
}

func TestReset_DropsView(t *testing.T) {
	repo := &mockPatientRepo{patients: []*Patient{{FirstName: "Ada"}}}
	svc := NewService(repo, nil, zerolog.Nop())
	svc.RefreshAll(context.Background())
	svc.Reset()
	if len(svc.Patients()) != 0 {
		t.Error("view survived reset")
	}
}
