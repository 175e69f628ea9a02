package editor

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuestionTypeSingle    = "single"
	QuestionTypeMultiple  = "multiple"
	QuestionTypeTrueFalse = "truefalse"
	QuestionTypeNumerical = "numerical"
)

const (
	ExamStatusUpcoming = "upcoming"
	ExamStatusOngoing  = "ongoing"
	ExamStatusFinished = "finished"
	// ExamStatusAnytime marks exams with no fixed scheduling window.
	ExamStatusAnytime = "anytime"
)

// ImageSlot is either a staged local file waiting for upload or a
// persisted remote URL. Both empty means no image.
type ImageSlot struct {
	StagedPath string `json:"staged_path,omitempty"`
	StagedName string `json:"staged_name,omitempty"`
	RemoteURL  string `json:"remote_url,omitempty"`
}

func (s ImageSlot) Staged() bool {
	return s.StagedPath != ""
}

func (s ImageSlot) Empty() bool {
	return s.StagedPath == "" && s.RemoteURL == ""
}

// ExamMeta holds the exam-level scalar fields. RemoteID == 0 means the
// exam has not been acknowledged by the upstream backend yet.
type ExamMeta struct {
	RemoteID        uint       `json:"remote_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalMarks      float64    `json:"total_marks"`
	PassPercentage  float64    `json:"pass_percentage"`
	Price           float64    `json:"price"`
	DiscountPrice   float64    `json:"discount_price"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Status          string     `json:"status"`
	Anytime         bool       `json:"anytime"`
	PrevStatus      string     `json:"prev_status,omitempty"`
	IsPublished     bool       `json:"is_published"`
	CategoryID      uint       `json:"category_id"`
	SubcategoryID   uint       `json:"subcategory_id"`
	ExamType        string     `json:"exam_type"`
	Syllabus        []string   `json:"syllabus,omitempty"`
	Banner          ImageSlot  `json:"banner"`
}

type Section struct {
	Key              string      `json:"key"`
	RemoteID         uint        `json:"remote_id,omitempty"`
	Name             string      `json:"name"`
	Order            int         `json:"order"`
	MarksPerQuestion float64     `json:"marks_per_question"`
	DurationMinutes  int         `json:"duration_minutes"`
	Questions        []*Question `json:"questions"`
}

type Question struct {
	Key           string    `json:"key"`
	RemoteID      uint      `json:"remote_id,omitempty"`
	Type          string    `json:"type"`
	Text          string    `json:"text"`
	TextHindi     string    `json:"text_hindi,omitempty"`
	Explanation   string    `json:"explanation,omitempty"`
	Marks         float64   `json:"marks"`
	NegativeMarks float64   `json:"negative_marks"`
	DifficultyID  uint      `json:"difficulty_id"`
	Order         int       `json:"order"`
	CorrectNumber *float64  `json:"correct_number,omitempty"`
	Tolerance     *float64  `json:"tolerance,omitempty"`
	Image         ImageSlot `json:"image"`
	ImageRequired bool      `json:"image_required,omitempty"`
	Options       []*Option `json:"options"`
}

type Option struct {
	Key       string    `json:"key"`
	RemoteID  uint      `json:"remote_id,omitempty"`
	Text      string    `json:"text"`
	TextHindi string    `json:"text_hindi,omitempty"`
	IsCorrect bool      `json:"is_correct"`
	Order     int       `json:"order"`
	Image     ImageSlot `json:"image"`
}

// ExamDraft is the full authoring tree for one exam. A single goroutine
// mutates a draft at a time; the draft store serializes access.
type ExamDraft struct {
	Exam     ExamMeta   `json:"exam"`
	Sections []*Section `json:"sections"`
}

func NewDraft(title string) *ExamDraft {
	return &ExamDraft{
		Exam: ExamMeta{
			Title:  title,
			Status: ExamStatusUpcoming,
		},
	}
}

// HasOptions reports whether a question type carries answer options.
func HasOptions(questionType string) bool {
	switch questionType {
	case QuestionTypeSingle, QuestionTypeMultiple, QuestionTypeTrueFalse:
		return true
	}
	return false
}

func newKey() string {
	return uuid.NewString()
}

func (d *ExamDraft) Section(key string) *Section {
	for _, s := range d.Sections {
		if s.Key == key {
			return s
		}
	}
	return nil
}

func (d *ExamDraft) Question(sectionKey, questionKey string) *Question {
	s := d.Section(sectionKey)
	if s == nil {
		return nil
	}
	for _, q := range s.Questions {
		if q.Key == questionKey {
			return q
		}
	}
	return nil
}

func (q *Question) Option(key string) *Option {
	for _, o := range q.Options {
		if o.Key == key {
			return o
		}
	}
	return nil
}

// CountQuestions returns the number of questions across all sections.
func (d *ExamDraft) CountQuestions() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Questions)
	}
	return n
}

// CountOptions returns the number of options that would be persisted,
// i.e. options of option-bearing questions only. Options preserved on a
// question whose type was switched to numerical are kept locally but
// never synced.
func (d *ExamDraft) CountOptions() int {
	n := 0
	for _, s := range d.Sections {
		for _, q := range s.Questions {
			if HasOptions(q.Type) {
				n += len(q.Options)
			}
		}
	}
	return n
}
