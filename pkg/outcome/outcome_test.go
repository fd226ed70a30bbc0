package outcome

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidation(t *testing.T) {
	err := Validation("missing %s", "notes")
	if !IsValidation(err) {
		t.Error("expected IsValidation to be true")
	}
	if IsRemote(err) || IsAuth(err) || IsPartial(err) {
		t.Error("expected other predicates to be false")
	}
	if err.Error() != "missing notes" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestRemoteUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Remote("insert appointment", cause)
	if !IsRemote(err) {
		t.Error("expected IsRemote to be true")
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
}

func TestAuth(t *testing.T) {
	err := Auth(errors.New("invalid login credentials"))
	if !IsAuth(err) {
		t.Error("expected IsAuth to be true")
	}
	if IsValidation(err) {
		t.Error("expected IsValidation to be false")
	}
}

func TestPartialCarriesSteps(t *testing.T) {
	err := Partial("record insert", "status update", errors.New("row-level security"))
	if !IsPartial(err) {
		t.Error("expected IsPartial to be true")
	}
	var p *PartialFailure
	if !errors.As(err, &p) {
		t.Fatal("expected errors.As to extract PartialFailure")
	}
	if p.Completed != "record insert" || p.Failed != "status update" {
		t.Errorf("unexpected steps: %s / %s", p.Completed, p.Failed)
	}
}

func TestPartialSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("complete appointment: %w", Partial("a", "b", errors.New("x")))
	if !IsPartial(err) {
		t.Error("expected IsPartial through wrapping")
	}
}
