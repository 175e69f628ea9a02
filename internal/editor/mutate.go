package editor

import (
	"errors"
	"time"
)

var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
)

const defaultOptionCount = 4

type SectionPatch struct {
	Name             *string  `json:"name"`
	MarksPerQuestion *float64 `json:"marks_per_question"`
	DurationMinutes  *int     `json:"duration_minutes"`
}

type QuestionPatch struct {
	Type          *string  `json:"type"`
	Text          *string  `json:"text"`
	TextHindi     *string  `json:"text_hindi"`
	Explanation   *string  `json:"explanation"`
	Marks         *float64 `json:"marks"`
	NegativeMarks *float64 `json:"negative_marks"`
	DifficultyID  *uint    `json:"difficulty_id"`
	CorrectNumber *float64 `json:"correct_number"`
	Tolerance     *float64 `json:"tolerance"`
}

type OptionPatch struct {
	Text      *string `json:"text"`
	TextHindi *string `json:"text_hindi"`
}

type MetaPatch struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	DurationMinutes *int       `json:"duration_minutes"`
	TotalMarks      *float64   `json:"total_marks"`
	PassPercentage  *float64   `json:"pass_percentage"`
	Price           *float64   `json:"price"`
	DiscountPrice   *float64   `json:"discount_price"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Status          *string    `json:"status"`
	Anytime         *bool      `json:"anytime"`
	CategoryID      *uint      `json:"category_id"`
	SubcategoryID   *uint      `json:"subcategory_id"`
	ExamType        *string    `json:"exam_type"`
	Syllabus        []string   `json:"syllabus"`
}

func (d *ExamDraft) AddSection(name string) *Section {
	s := &Section{
		Key:   newKey(),
		Name:  name,
		Order: len(d.Sections) + 1,
	}
	d.Sections = append(d.Sections, s)
	return s
}

func (d *ExamDraft) RemoveSection(key string) error {
	for i, s := range d.Sections {
		if s.Key == key {
			d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
			for j, rest := range d.Sections {
				rest.Order = j + 1
			}
			return nil
		}
	}
	return ErrSectionNotFound
}

func (d *ExamDraft) UpdateSection(key string, patch SectionPatch) error {
	s := d.Section(key)
	if s == nil {
		return ErrSectionNotFound
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.MarksPerQuestion != nil {
		s.MarksPerQuestion = *patch.MarksPerQuestion
	}
	if patch.DurationMinutes != nil {
		s.DurationMinutes = *patch.DurationMinutes
	}
	return nil
}

// AddQuestion appends a question of the given type to a section. For
// option-bearing types the question is seeded with four empty options so
// the author starts from a usable shape.
func (d *ExamDraft) AddQuestion(sectionKey, questionType string) (*Question, error) {
	s := d.Section(sectionKey)
	if s == nil {
		return nil, ErrSectionNotFound
	}
	if questionType == "" {
		questionType = QuestionTypeSingle
	}
	q := &Question{
		Key:   newKey(),
		Type:  questionType,
		Order: len(s.Questions) + 1,
		Marks: s.MarksPerQuestion,
	}
	if HasOptions(questionType) {
		for i := 0; i < defaultOptionCount; i++ {
			q.Options = append(q.Options, &Option{
				Key:   newKey(),
				Order: i + 1,
			})
		}
	}
	s.Questions = append(s.Questions, q)
	return q, nil
}

func (d *ExamDraft) RemoveQuestion(sectionKey, questionKey string) error {
	s := d.Section(sectionKey)
	if s == nil {
		return ErrSectionNotFound
	}
	for i, q := range s.Questions {
		if q.Key == questionKey {
			s.Questions = append(s.Questions[:i], s.Questions[i+1:]...)
			for j, rest := range s.Questions {
				rest.Order = j + 1
			}
			return nil
		}
	}
	return ErrQuestionNotFound
}

// UpdateQuestion applies a patch. Changing the type away from an
// option-bearing one keeps the existing options so an accidental toggle
// does not destroy authored answers; they simply stop being validated
// and synced until the type comes back.
func (d *ExamDraft) UpdateQuestion(sectionKey, questionKey string, patch QuestionPatch) error {
	q := d.Question(sectionKey, questionKey)
	if q == nil {
		return ErrQuestionNotFound
	}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.Text != nil {
		q.Text = *patch.Text
	}
	if patch.TextHindi != nil {
		q.TextHindi = *patch.TextHindi
	}
	if patch.Explanation != nil {
		q.Explanation = *patch.Explanation
	}
	if patch.Marks != nil {
		q.Marks = *patch.Marks
	}
	if patch.NegativeMarks != nil {
		q.NegativeMarks = *patch.NegativeMarks
	}
	if patch.DifficultyID != nil {
		q.DifficultyID = *patch.DifficultyID
	}
	if patch.CorrectNumber != nil {
		q.CorrectNumber = patch.CorrectNumber
	}
	if patch.Tolerance != nil {
		q.Tolerance = patch.Tolerance
	}
	return nil
}

// SetCorrectAnswer marks an option correct. For single and truefalse
// questions the target becomes the only correct option; every sibling is
// cleared in the same mutation. For multiple choice only the target is
// toggled and siblings are untouched.
func (d *ExamDraft) SetCorrectAnswer(sectionKey, questionKey, optionKey string) error {
	q := d.Question(sectionKey, questionKey)
	if q == nil {
		return ErrQuestionNotFound
	}
	target := q.Option(optionKey)
	if target == nil {
		return ErrOptionNotFound
	}
	if q.Type == QuestionTypeMultiple {
		target.IsCorrect = !target.IsCorrect
		return nil
	}
	for _, o := range q.Options {
		o.IsCorrect = o.Key == optionKey
	}
	return nil
}

func (d *ExamDraft) AddOption(sectionKey, questionKey string) (*Option, error) {
	q := d.Question(sectionKey, questionKey)
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	o := &Option{
		Key:   newKey(),
		Order: len(q.Options) + 1,
	}
	q.Options = append(q.Options, o)
	return o, nil
}

// RemoveOption deletes an option unconditionally. The HTTP layer refuses
// removal when only two options would remain; the mutation itself stays
// permissive so imports and programmatic edits are not blocked.
func (d *ExamDraft) RemoveOption(sectionKey, questionKey, optionKey string) error {
	q := d.Question(sectionKey, questionKey)
	if q == nil {
		return ErrQuestionNotFound
	}
	for i, o := range q.Options {
		if o.Key == optionKey {
			q.Options = append(q.Options[:i], q.Options[i+1:]...)
			for j, rest := range q.Options {
				rest.Order = j + 1
			}
			return nil
		}
	}
	return ErrOptionNotFound
}

func (d *ExamDraft) UpdateOption(sectionKey, questionKey, optionKey string, patch OptionPatch) error {
	q := d.Question(sectionKey, questionKey)
	if q == nil {
		return ErrQuestionNotFound
	}
	o := q.Option(optionKey)
	if o == nil {
		return ErrOptionNotFound
	}
	if patch.Text != nil {
		o.Text = *patch.Text
	}
	if patch.TextHindi != nil {
		o.TextHindi = *patch.TextHindi
	}
	return nil
}

// IgnoreImageRequirement dismisses the image-required flag a CSV import
// put on a question.
func (d *ExamDraft) IgnoreImageRequirement(sectionKey, questionKey string) error {
	q := d.Question(sectionKey, questionKey)
	if q == nil {
		return ErrQuestionNotFound
	}
	q.ImageRequired = false
	return nil
}

// SetAnytime toggles the no-schedule flag. Turning it on clears the
// scheduling window and forces the anytime status, remembering the prior
// status; turning it off restores that status or falls back to upcoming.
func (d *ExamDraft) SetAnytime(on bool) {
	if on {
		if !d.Exam.Anytime {
			d.Exam.PrevStatus = d.Exam.Status
		}
		d.Exam.Anytime = true
		d.Exam.StartDate = nil
		d.Exam.EndDate = nil
		d.Exam.Status = ExamStatusAnytime
		return
	}
	if !d.Exam.Anytime {
		return
	}
	d.Exam.Anytime = false
	if d.Exam.PrevStatus != "" {
		d.Exam.Status = d.Exam.PrevStatus
	} else {
		d.Exam.Status = ExamStatusUpcoming
	}
	d.Exam.PrevStatus = ""
}

// UpdateMeta applies an exam-level patch. The anytime flag is routed
// through SetAnytime so schedule normalization stays in one place.
func (d *ExamDraft) UpdateMeta(patch MetaPatch) {
	if patch.Title != nil {
		d.Exam.Title = *patch.Title
	}
	if patch.Description != nil {
		d.Exam.Description = *patch.Description
	}
	if patch.DurationMinutes != nil {
		d.Exam.DurationMinutes = *patch.DurationMinutes
	}
	if patch.TotalMarks != nil {
		d.Exam.TotalMarks = *patch.TotalMarks
	}
	if patch.PassPercentage != nil {
		d.Exam.PassPercentage = *patch.PassPercentage
	}
	if patch.Price != nil {
		d.Exam.Price = *patch.Price
	}
	if patch.DiscountPrice != nil {
		d.Exam.DiscountPrice = *patch.DiscountPrice
	}
	if patch.StartDate != nil && !d.Exam.Anytime {
		d.Exam.StartDate = patch.StartDate
	}
	if patch.EndDate != nil && !d.Exam.Anytime {
		d.Exam.EndDate = patch.EndDate
	}
	if patch.Status != nil && !d.Exam.Anytime {
		d.Exam.Status = *patch.Status
	}
	if patch.CategoryID != nil {
		d.Exam.CategoryID = *patch.CategoryID
	}
	if patch.SubcategoryID != nil {
		d.Exam.SubcategoryID = *patch.SubcategoryID
	}
	if patch.ExamType != nil {
		d.Exam.ExamType = *patch.ExamType
	}
	if patch.Syllabus != nil {
		d.Exam.Syllabus = patch.Syllabus
	}
	if patch.Anytime != nil {
		d.SetAnytime(*patch.Anytime)
	}
}

// AttachStagedImage records a locally staged file on a node that has no
// remote ID yet. No network call happens here; the file is uploaded
// during submission once the node has a server-assigned ID.
func (img *ImageSlot) AttachStaged(path, name string) {
	img.StagedPath = path
	img.StagedName = name
}

// SetRemote records a completed upload: the staged file is forgotten and
// the persisted URL takes over.
func (img *ImageSlot) SetRemote(url string) {
	img.RemoteURL = url
	img.StagedPath = ""
	img.StagedName = ""
}

func (img *ImageSlot) Clear() {
	*img = ImageSlot{}
}
