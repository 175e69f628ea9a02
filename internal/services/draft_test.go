package services

import (
	"sync"
	"testing"

	"exam-authoring-backend/internal/editor"
)

// The in-flight guard runs before any database access, so it is
// testable without one: a draft with a submission running must refuse
// mutations and a second submission outright.
func TestSubmitGuardRefusesConcurrentWork(t *testing.T) {
	s := NewDraftService(nil)

	if err := s.BeginSubmit(7); err != nil {
		t.Fatalf("BeginSubmit failed: %v", err)
	}

	if _, err := s.Mutate(7, 1, func(d *editor.ExamDraft) error {
		t.Fatal("mutation ran during a submission")
		return nil
	}); err != ErrSubmitInFlight {
		t.Fatalf("Mutate returned %v, want ErrSubmitInFlight", err)
	}

	if err := s.BeginSubmit(7); err != ErrSubmitInFlight {
		t.Fatalf("second BeginSubmit returned %v, want ErrSubmitInFlight", err)
	}

	// Other drafts are unaffected.
	if err := s.BeginSubmit(8); err != nil {
		t.Fatalf("BeginSubmit on another draft failed: %v", err)
	}
	s.EndSubmit(8)

	s.EndSubmit(7)
	if err := s.BeginSubmit(7); err != nil {
		t.Fatalf("BeginSubmit after EndSubmit failed: %v", err)
	}
	s.EndSubmit(7)
}

// Racing submissions on one draft: exactly one wins, the rest get the
// sentinel, and the winner can hand off cleanly.
func TestBeginSubmitRace(t *testing.T) {
	s := NewDraftService(nil)

	const workers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.BeginSubmit(3); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	if won != 1 {
		t.Fatalf("%d submissions started concurrently, want exactly 1", won)
	}

	s.EndSubmit(3)
	if err := s.BeginSubmit(3); err != nil {
		t.Fatalf("BeginSubmit after release failed: %v", err)
	}
}
