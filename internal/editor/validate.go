package editor

import "fmt"

const minOptionCount = 2

// ValidationResult is a pure function of the draft tree: an ordered list
// of human-readable violations plus the same violations keyed by the
// section or question they belong to, for inline display.
type ValidationResult struct {
	Violations []string            `json:"violations"`
	ByKey      map[string][]string `json:"by_key"`
}

func (r *ValidationResult) OK() bool {
	return len(r.Violations) == 0
}

func (r *ValidationResult) add(key, msg string) {
	r.Violations = append(r.Violations, msg)
	if key != "" {
		r.ByKey[key] = append(r.ByKey[key], msg)
	}
}

// Validate recomputes the full violation set from the current tree. It
// stores nothing and touches no network.
func Validate(d *ExamDraft) *ValidationResult {
	r := &ValidationResult{ByKey: map[string][]string{}}

	if d.Exam.Title == "" {
		r.add("", "exam title is required")
	}
	if d.Exam.DurationMinutes <= 0 {
		r.add("", "exam duration must be positive")
	}
	if len(d.Sections) == 0 {
		r.add("", "exam must have at least one section")
	}

	for si, s := range d.Sections {
		sectionLabel := s.Name
		if sectionLabel == "" {
			sectionLabel = fmt.Sprintf("section %d", si+1)
			r.add(s.Key, fmt.Sprintf("section %d: name is required", si+1))
		}
		if len(s.Questions) == 0 {
			r.add(s.Key, fmt.Sprintf("%s: has no questions", sectionLabel))
		}
		for qi, q := range s.Questions {
			label := fmt.Sprintf("%s, question %d", sectionLabel, qi+1)
			validateQuestion(r, label, q)
		}
	}
	return r
}

func validateQuestion(r *ValidationResult, label string, q *Question) {
	if q.Text == "" && q.TextHindi == "" {
		r.add(q.Key, label+": text is required")
	}
	if q.Marks <= 0 {
		r.add(q.Key, label+": marks must be positive")
	}
	if q.ImageRequired && q.Image.Empty() {
		r.add(q.Key, label+": image is required")
	}

	if !HasOptions(q.Type) {
		if q.Type == QuestionTypeNumerical && q.CorrectNumber == nil {
			r.add(q.Key, label+": numerical answer is required")
		}
		return
	}

	if len(q.Options) < minOptionCount {
		r.add(q.Key, fmt.Sprintf("%s: needs at least %d options", label, minOptionCount))
	}
	correct := 0
	for oi, o := range q.Options {
		if o.Text == "" && o.TextHindi == "" {
			r.add(q.Key, fmt.Sprintf("%s: option %d text is required", label, oi+1))
		}
		if o.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		r.add(q.Key, label+": no correct option selected")
	}
}

// ValidateBilingual runs Validate and additionally checks language
// coverage: every question must be fully authored in at least one of
// English or Hindi (including its options); the second language is
// optional per field but a half-filled secondary is flagged.
func ValidateBilingual(d *ExamDraft) *ValidationResult {
	r := Validate(d)
	for si, s := range d.Sections {
		sectionLabel := s.Name
		if sectionLabel == "" {
			sectionLabel = fmt.Sprintf("section %d", si+1)
		}
		for qi, q := range s.Questions {
			label := fmt.Sprintf("%s, question %d", sectionLabel, qi+1)
			en, hi := languageCoverage(q)
			switch {
			case !en && !hi:
				r.add(q.Key, label+": not fully authored in any language")
			case !en && partialEnglish(q):
				r.add(q.Key, label+": english content is incomplete")
			case !hi && partialHindi(q):
				r.add(q.Key, label+": hindi content is incomplete")
			}
		}
	}
	return r
}

func languageCoverage(q *Question) (en, hi bool) {
	en = q.Text != ""
	hi = q.TextHindi != ""
	if !HasOptions(q.Type) {
		return en, hi
	}
	for _, o := range q.Options {
		if o.Text == "" {
			en = false
		}
		if o.TextHindi == "" {
			hi = false
		}
	}
	return en, hi
}

func partialEnglish(q *Question) bool {
	if q.Text != "" {
		return true
	}
	for _, o := range q.Options {
		if o.Text != "" {
			return true
		}
	}
	return false
}

func partialHindi(q *Question) bool {
	if q.TextHindi != "" {
		return true
	}
	for _, o := range q.Options {
		if o.TextHindi != "" {
			return true
		}
	}
	return false
}
