package appstate

import (
	"testing"
	"time"
)

func TestNotificationCenter_ExpiresNotices(t *testing.T) {
	n := NewNotificationCenter(5 * time.Second)
	current := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return current }

	n.Notify("Patient Ada Okafor added")
	if got := n.Active(); len(got) != 1 || got[0].Message != "Patient Ada Okafor added" {
		t.Fatalf("active = %v", got)
	}

	current = current.Add(3 * time.Second)
	n.Notify("Patient Ben Ruiz added")
	current = current.Add(3 * time.Second)

	got := n.Active()
	if len(got) != 1 || got[0].Message != "Patient Ben Ruiz added" {
		t.Errorf("expected only the newer notice, got %v", got)
	}
}

func TestNotificationCenter_Clear(t *testing.T) {
	n := NewNotificationCenter(time.Minute)
	n.Notify("one")
	n.Notify("two")
	n.Clear()
	if got := n.Active(); len(got) != 0 {
		t.Errorf("active after clear = %v", got)
	}
}
