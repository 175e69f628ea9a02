package editor

import (
	"strings"
	"testing"
)

const sampleCSV = `section,question,type,option1,option2,option3,option4,correct,marks,negative_marks,image_required
Algebra,2 + 2 = ?,single,3,4,5,6,2,1,0.25,
Algebra,Which are prime?,multiple,2,4,7,9,1|3,2,0,yes
Geometry,Area of a unit circle?,numerical,,,,,3.1416,2,0,
Geometry,Identify the marked angle,single,30,45,60,90,3,1,0,1
`

func TestParseCSV(t *testing.T) {
	sections, err := ParseCSV([]byte(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Name != "Algebra" || sections[1].Name != "Geometry" {
		t.Fatalf("section order lost: %q, %q", sections[0].Name, sections[1].Name)
	}

	single := sections[0].Questions[0]
	if single.Marks != 1 || single.NegativeMarks != 0.25 {
		t.Errorf("marks = %v / %v", single.Marks, single.NegativeMarks)
	}
	for i, o := range single.Options {
		if o.IsCorrect != (i == 1) {
			t.Errorf("option %d correctness wrong", i+1)
		}
	}

	multi := sections[0].Questions[1]
	if !multi.ImageRequired {
		t.Error("image_required=yes not parsed")
	}
	wantCorrect := []bool{true, false, true, false}
	for i, o := range multi.Options {
		if o.IsCorrect != wantCorrect[i] {
			t.Errorf("multi option %d correctness wrong", i+1)
		}
	}

	numerical := sections[1].Questions[0]
	if numerical.CorrectNumber == nil || *numerical.CorrectNumber != 3.1416 {
		t.Errorf("numerical answer = %v", numerical.CorrectNumber)
	}
	if len(numerical.Options) != 0 {
		t.Errorf("numerical question picked up %d options", len(numerical.Options))
	}

	if !sections[1].Questions[1].ImageRequired {
		t.Error("image_required=1 not parsed")
	}
}

func TestParseCSVSkipsUnusableRows(t *testing.T) {
	data := `section,question,type,option1,option2,option3,option4,correct
A,,single,1,2,3,4,1
A,Only one option,single,lonely,,,,1
A,Good question,single,a,b,c,d,1
`
	sections, err := ParseCSV([]byte(data))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if n := len(sections[0].Questions); n != 1 {
		t.Fatalf("got %d questions, want 1 after skipping bad rows", n)
	}
	if sections[0].Questions[0].Text != "Good question" {
		t.Fatalf("kept the wrong row: %q", sections[0].Questions[0].Text)
	}
}

func TestParseCSVDefaults(t *testing.T) {
	data := `section,question,type,option1,option2,option3,option4,correct
,What is up,,north,south,,,1
`
	sections, err := ParseCSV([]byte(data))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if sections[0].Name != "Imported" {
		t.Errorf("blank section name not defaulted: %q", sections[0].Name)
	}
	q := sections[0].Questions[0]
	if q.Type != QuestionTypeSingle {
		t.Errorf("blank type not defaulted: %q", q.Type)
	}
	if q.Marks != 1 {
		t.Errorf("default marks = %v", q.Marks)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"header only", "section,question,type,option1,option2,option3,option4,correct\n"},
		{"nothing importable", "section,question,type,option1,option2,option3,option4,correct\nA,,single,1,2,3,4,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV([]byte(tt.data)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestMergeAppendsFreshNodes(t *testing.T) {
	d := validDraft(t)
	sections, err := ParseCSV([]byte(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	added := d.Merge(sections)
	if added != 4 {
		t.Fatalf("Merge reported %d questions, want 4", added)
	}
	if len(d.Sections) != 3 {
		t.Fatalf("got %d sections after merge, want 3", len(d.Sections))
	}

	// Imported nodes are local-only: no remote IDs, unique keys.
	seen := map[string]bool{}
	for _, s := range d.Sections[1:] {
		if s.RemoteID != 0 {
			t.Error("imported section carries a remote ID")
		}
		for _, q := range s.Questions {
			if q.RemoteID != 0 {
				t.Error("imported question carries a remote ID")
			}
			if seen[q.Key] {
				t.Error("duplicate question key")
			}
			seen[q.Key] = true
		}
	}

	// Merged sections keep contiguous ordering after the existing one.
	for i, s := range d.Sections {
		if s.Order != i+1 {
			t.Errorf("section %d has order %d", i, s.Order)
		}
	}
}

func TestMergedDraftValidates(t *testing.T) {
	d := NewDraft("Imported Exam")
	d.Exam.DurationMinutes = 90
	sections, err := ParseCSV([]byte(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	d.Merge(sections)

	r := Validate(d)
	// The only expected violation is the image_required flags carried in
	// from the sheet.
	for _, v := range r.Violations {
		if !strings.Contains(v, "image is required") {
			t.Errorf("unexpected violation: %s", v)
		}
	}
	if len(r.Violations) != 2 {
		t.Fatalf("got %d violations, want the 2 image flags: %v", len(r.Violations), r.Violations)
	}
}
