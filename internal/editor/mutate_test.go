package editor

import (
	"testing"
	"time"
)

// buildDraft returns a draft with one section holding one question of
// the given type, seeded options included.
func buildDraft(t *testing.T, questionType string) (*ExamDraft, *Section, *Question) {
	t.Helper()
	d := NewDraft("Test Exam")
	s := d.AddSection("Section A")
	q, err := d.AddQuestion(s.Key, questionType)
	if err != nil {
		t.Fatalf("AddQuestion failed: %v", err)
	}
	return d, s, q
}

func TestAddQuestionSeedsOptions(t *testing.T) {
	tests := []struct {
		qType       string
		wantOptions int
	}{
		{QuestionTypeSingle, 4},
		{QuestionTypeMultiple, 4},
		{QuestionTypeTrueFalse, 4},
		{QuestionTypeNumerical, 0},
	}

	for _, tt := range tests {
		t.Run(tt.qType, func(t *testing.T) {
			_, _, q := buildDraft(t, tt.qType)
			if len(q.Options) != tt.wantOptions {
				t.Fatalf("got %d options, want %d", len(q.Options), tt.wantOptions)
			}
			for i, o := range q.Options {
				if o.IsCorrect {
					t.Errorf("option %d seeded as correct", i)
				}
				if o.Order != i+1 {
					t.Errorf("option %d has order %d, want %d", i, o.Order, i+1)
				}
			}
		})
	}
}

func TestSetCorrectAnswerSingle(t *testing.T) {
	d, s, q := buildDraft(t, QuestionTypeSingle)

	// Pre-mark a different option correct to prove siblings are cleared
	// in the same mutation.
	q.Options[0].IsCorrect = true

	if err := d.SetCorrectAnswer(s.Key, q.Key, q.Options[2].Key); err != nil {
		t.Fatalf("SetCorrectAnswer failed: %v", err)
	}

	correct := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			correct++
			if o.Key != q.Options[2].Key {
				t.Errorf("wrong option marked correct")
			}
		}
	}
	if correct != 1 {
		t.Fatalf("got %d correct options, want exactly 1", correct)
	}

	// Re-targeting moves the mark, never accumulates it.
	if err := d.SetCorrectAnswer(s.Key, q.Key, q.Options[0].Key); err != nil {
		t.Fatalf("SetCorrectAnswer failed: %v", err)
	}
	correct = 0
	for _, o := range q.Options {
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		t.Fatalf("after retarget: got %d correct options, want exactly 1", correct)
	}
}

func TestSetCorrectAnswerMultipleTogglesOnlyTarget(t *testing.T) {
	d, s, q := buildDraft(t, QuestionTypeMultiple)
	q.Options[0].IsCorrect = true

	if err := d.SetCorrectAnswer(s.Key, q.Key, q.Options[1].Key); err != nil {
		t.Fatalf("SetCorrectAnswer failed: %v", err)
	}
	if !q.Options[0].IsCorrect || !q.Options[1].IsCorrect {
		t.Fatal("multiple-choice toggle disturbed a sibling")
	}

	// Toggling the same option again clears only it.
	if err := d.SetCorrectAnswer(s.Key, q.Key, q.Options[1].Key); err != nil {
		t.Fatalf("SetCorrectAnswer failed: %v", err)
	}
	if !q.Options[0].IsCorrect || q.Options[1].IsCorrect {
		t.Fatal("second toggle did not behave as a toggle")
	}
}

func TestTypeChangePreservesOptions(t *testing.T) {
	d, s, q := buildDraft(t, QuestionTypeSingle)
	q.Options[1].Text = "kept"

	numerical := QuestionTypeNumerical
	if err := d.UpdateQuestion(s.Key, q.Key, QuestionPatch{Type: &numerical}); err != nil {
		t.Fatalf("UpdateQuestion failed: %v", err)
	}
	if len(q.Options) != 4 {
		t.Fatalf("type change dropped options: got %d, want 4", len(q.Options))
	}

	single := QuestionTypeSingle
	if err := d.UpdateQuestion(s.Key, q.Key, QuestionPatch{Type: &single}); err != nil {
		t.Fatalf("UpdateQuestion failed: %v", err)
	}
	if q.Options[1].Text != "kept" {
		t.Fatal("option text lost across type round-trip")
	}
}

func TestRemoveReordersSiblings(t *testing.T) {
	d := NewDraft("Test")
	s := d.AddSection("A")
	d.AddSection("B")
	d.AddSection("C")

	if err := d.RemoveSection(s.Key); err != nil {
		t.Fatalf("RemoveSection failed: %v", err)
	}
	for i, sec := range d.Sections {
		if sec.Order != i+1 {
			t.Errorf("section %d has order %d after removal", i, sec.Order)
		}
	}

	if err := d.RemoveSection("missing"); err != ErrSectionNotFound {
		t.Errorf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestSetAnytime(t *testing.T) {
	d := NewDraft("Test")
	start := time.Now()
	end := start.Add(48 * time.Hour)
	d.Exam.StartDate = &start
	d.Exam.EndDate = &end
	d.Exam.Status = ExamStatusOngoing

	d.SetAnytime(true)
	if d.Exam.StartDate != nil || d.Exam.EndDate != nil {
		t.Fatal("anytime did not clear the scheduling window")
	}
	if d.Exam.Status != ExamStatusAnytime {
		t.Fatalf("status = %q, want %q", d.Exam.Status, ExamStatusAnytime)
	}

	d.SetAnytime(false)
	if d.Exam.Status != ExamStatusOngoing {
		t.Fatalf("status = %q, want prior status %q restored", d.Exam.Status, ExamStatusOngoing)
	}

	// Without a remembered status, fall back to upcoming.
	d2 := NewDraft("Test 2")
	d2.Exam.Status = ExamStatusAnytime
	d2.Exam.Anytime = true
	d2.SetAnytime(false)
	if d2.Exam.Status != ExamStatusUpcoming {
		t.Fatalf("status = %q, want %q", d2.Exam.Status, ExamStatusUpcoming)
	}
}

func TestMetaPatchRoutesAnytimeThroughNormalization(t *testing.T) {
	d := NewDraft("Test")
	start := time.Now()
	on := true
	d.UpdateMeta(MetaPatch{StartDate: &start, Anytime: &on})

	if d.Exam.StartDate != nil {
		t.Fatal("anytime exam kept a start date")
	}
	if d.Exam.Status != ExamStatusAnytime {
		t.Fatalf("status = %q, want %q", d.Exam.Status, ExamStatusAnytime)
	}
}

func TestIgnoreImageRequirement(t *testing.T) {
	d, s, q := buildDraft(t, QuestionTypeSingle)
	q.ImageRequired = true

	if err := d.IgnoreImageRequirement(s.Key, q.Key); err != nil {
		t.Fatalf("IgnoreImageRequirement failed: %v", err)
	}
	if q.ImageRequired {
		t.Fatal("flag not dismissed")
	}
}
