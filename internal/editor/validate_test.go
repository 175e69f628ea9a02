package editor

import (
	"strings"
	"testing"
)

// validDraft builds the smallest tree that passes Validate.
func validDraft(t *testing.T) *ExamDraft {
	t.Helper()
	d := NewDraft("Algebra Mock")
	d.Exam.DurationMinutes = 60
	s := d.AddSection("Algebra")
	q, err := d.AddQuestion(s.Key, QuestionTypeSingle)
	if err != nil {
		t.Fatalf("AddQuestion failed: %v", err)
	}
	q.Text = "2 + 2 = ?"
	q.Marks = 1
	for i, o := range q.Options {
		o.Text = "answer"
		o.IsCorrect = i == 0
	}
	return d
}

func hasViolation(r *ValidationResult, substr string) bool {
	for _, v := range r.Violations {
		if strings.Contains(v, substr) {
			return true
		}
	}
	return false
}

func TestValidateMinimalDraftPasses(t *testing.T) {
	r := Validate(validDraft(t))
	if !r.OK() {
		t.Fatalf("expected no violations, got %v", r.Violations)
	}
}

func TestValidateEmptyDraft(t *testing.T) {
	r := Validate(NewDraft(""))
	for _, want := range []string{"title is required", "duration must be positive", "at least one section"} {
		if !hasViolation(r, want) {
			t.Errorf("missing violation %q in %v", want, r.Violations)
		}
	}
}

func TestValidateQuestionRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, d *ExamDraft)
		want   string
	}{
		{
			name: "empty question text",
			mutate: func(t *testing.T, d *ExamDraft) {
				d.Sections[0].Questions[0].Text = ""
			},
			want: "text is required",
		},
		{
			name: "non-positive marks",
			mutate: func(t *testing.T, d *ExamDraft) {
				d.Sections[0].Questions[0].Marks = 0
			},
			want: "marks must be positive",
		},
		{
			name: "no correct option",
			mutate: func(t *testing.T, d *ExamDraft) {
				for _, o := range d.Sections[0].Questions[0].Options {
					o.IsCorrect = false
				}
			},
			want: "no correct option",
		},
		{
			name: "too few options",
			mutate: func(t *testing.T, d *ExamDraft) {
				q := d.Sections[0].Questions[0]
				q.Options = q.Options[:1]
			},
			want: "at least 2 options",
		},
		{
			name: "image required but missing",
			mutate: func(t *testing.T, d *ExamDraft) {
				d.Sections[0].Questions[0].ImageRequired = true
			},
			want: "image is required",
		},
		{
			name: "numerical without answer",
			mutate: func(t *testing.T, d *ExamDraft) {
				s := d.Sections[0]
				q, err := d.AddQuestion(s.Key, QuestionTypeNumerical)
				if err != nil {
					t.Fatalf("AddQuestion failed: %v", err)
				}
				q.Text = "sqrt(2)?"
				q.Marks = 1
			},
			want: "numerical answer is required",
		},
		{
			name: "empty section",
			mutate: func(t *testing.T, d *ExamDraft) {
				d.AddSection("Geometry")
			},
			want: "has no questions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft(t)
			tt.mutate(t, d)
			r := Validate(d)
			if r.OK() {
				t.Fatal("expected violations, got none")
			}
			if !hasViolation(r, tt.want) {
				t.Fatalf("missing violation %q in %v", tt.want, r.Violations)
			}
		})
	}
}

func TestValidateImageRequirementSatisfiedByStagedFile(t *testing.T) {
	d := validDraft(t)
	q := d.Sections[0].Questions[0]
	q.ImageRequired = true
	q.Image.AttachStaged("/tmp/img.png", "img.png")

	if r := Validate(d); !r.OK() {
		t.Fatalf("staged image should satisfy the requirement, got %v", r.Violations)
	}
}

func TestValidateByKeyGroupsQuestionViolations(t *testing.T) {
	d := validDraft(t)
	q := d.Sections[0].Questions[0]
	q.Text = ""
	q.Marks = 0

	r := Validate(d)
	if len(r.ByKey[q.Key]) != 2 {
		t.Fatalf("expected 2 violations under the question key, got %v", r.ByKey[q.Key])
	}
}

func TestValidateBilingual(t *testing.T) {
	d := validDraft(t)
	q := d.Sections[0].Questions[0]

	// English-only question: fine, no hindi content started.
	if r := ValidateBilingual(d); !r.OK() {
		t.Fatalf("english-only draft should pass, got %v", r.Violations)
	}

	// Hindi started on the question but not on the options: flagged.
	q.TextHindi = "दो जमा दो?"
	r := ValidateBilingual(d)
	if !hasViolation(r, "hindi content is incomplete") {
		t.Fatalf("expected incomplete hindi flag, got %v", r.Violations)
	}

	// Completing the options fixes it.
	for _, o := range q.Options {
		o.TextHindi = "उत्तर"
	}
	if r := ValidateBilingual(d); !r.OK() {
		t.Fatalf("fully bilingual draft should pass, got %v", r.Violations)
	}
}
