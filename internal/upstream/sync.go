package upstream

import (
	"context"

	"exam-authoring-backend/internal/editor"

	"github.com/google/uuid"
)

// Syncer adapts the typed domain services to the editor's Backend
// contract: payload mapping on the way out, server IDs on the way back.
type Syncer struct {
	Exams     *ExamsService
	Sections  *SectionsService
	Questions *QuestionsService
	Options   *OptionsService
	Taxonomy  *TaxonomyService
}

func NewSyncer(client *Client) *Syncer {
	return &Syncer{
		Exams:     NewExamsService(client),
		Sections:  NewSectionsService(client),
		Questions: NewQuestionsService(client),
		Options:   NewOptionsService(client),
		Taxonomy:  NewTaxonomyService(client),
	}
}

var _ editor.Backend = (*Syncer)(nil)

// examPayload normalizes schedule fields: an anytime exam never carries
// a window and always ships the anytime status, whatever the tree says.
func examPayload(meta *editor.ExamMeta, publish bool) ExamPayload {
	p := ExamPayload{
		Title:           meta.Title,
		Description:     meta.Description,
		DurationMinutes: meta.DurationMinutes,
		TotalMarks:      meta.TotalMarks,
		PassPercentage:  meta.PassPercentage,
		Price:           meta.Price,
		DiscountPrice:   meta.DiscountPrice,
		StartDate:       meta.StartDate,
		EndDate:         meta.EndDate,
		Status:          meta.Status,
		IsPublished:     publish,
		CategoryID:      meta.CategoryID,
		SubcategoryID:   meta.SubcategoryID,
		ExamType:        meta.ExamType,
		Syllabus:        meta.Syllabus,
	}
	if meta.Anytime {
		p.StartDate = nil
		p.EndDate = nil
		p.Status = editor.ExamStatusAnytime
	}
	return p
}

func (s *Syncer) CreateExam(ctx context.Context, meta *editor.ExamMeta, publish bool) (uint, error) {
	exam, err := s.Exams.Create(ctx, examPayload(meta, publish), meta.Banner.StagedPath)
	if err != nil {
		return 0, err
	}
	if exam.BannerURL != "" {
		meta.Banner.SetRemote(exam.BannerURL)
	}
	return exam.ID, nil
}

func (s *Syncer) UpdateExam(ctx context.Context, meta *editor.ExamMeta, publish bool) (uint, error) {
	exam, err := s.Exams.Update(ctx, meta.RemoteID, examPayload(meta, publish), meta.Banner.StagedPath)
	if err != nil {
		return 0, err
	}
	if exam.BannerURL != "" {
		meta.Banner.SetRemote(exam.BannerURL)
	}
	return exam.ID, nil
}

func (s *Syncer) CreateSection(ctx context.Context, examID uint, sec *editor.Section) (uint, error) {
	out, err := s.Sections.Create(ctx, sectionPayload(examID, sec))
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (s *Syncer) UpdateSection(ctx context.Context, examID uint, sec *editor.Section) (uint, error) {
	out, err := s.Sections.Update(ctx, sec.RemoteID, sectionPayload(examID, sec))
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func sectionPayload(examID uint, sec *editor.Section) SectionPayload {
	return SectionPayload{
		ExamID:           examID,
		Name:             sec.Name,
		SectionOrder:     sec.Order,
		MarksPerQuestion: sec.MarksPerQuestion,
		DurationMinutes:  sec.DurationMinutes,
	}
}

func (s *Syncer) CreateQuestion(ctx context.Context, sectionID uint, q *editor.Question) (uint, error) {
	out, err := s.Questions.Create(ctx, questionPayload(sectionID, q))
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (s *Syncer) UpdateQuestion(ctx context.Context, sectionID uint, q *editor.Question) (uint, error) {
	out, err := s.Questions.Update(ctx, q.RemoteID, questionPayload(sectionID, q))
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func questionPayload(sectionID uint, q *editor.Question) QuestionPayload {
	return QuestionPayload{
		SectionID:     sectionID,
		Type:          q.Type,
		Text:          q.Text,
		TextHindi:     q.TextHindi,
		Explanation:   q.Explanation,
		Marks:         q.Marks,
		NegativeMarks: q.NegativeMarks,
		DifficultyID:  q.DifficultyID,
		QuestionOrder: q.Order,
		CorrectNumber: q.CorrectNumber,
		Tolerance:     q.Tolerance,
	}
}

func (s *Syncer) CreateOption(ctx context.Context, questionID uint, o *editor.Option) (uint, error) {
	out, err := s.Options.Create(ctx, optionPayload(questionID, o))
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (s *Syncer) UpdateOption(ctx context.Context, questionID uint, o *editor.Option) (uint, error) {
	out, err := s.Options.Update(ctx, o.RemoteID, optionPayload(questionID, o))
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func optionPayload(questionID uint, o *editor.Option) OptionPayload {
	return OptionPayload{
		QuestionID:  questionID,
		Text:        o.Text,
		TextHindi:   o.TextHindi,
		IsCorrect:   o.IsCorrect,
		OptionOrder: o.Order,
	}
}

func (s *Syncer) UploadQuestionImage(ctx context.Context, questionID uint, path string) (string, error) {
	return s.Questions.UploadImage(ctx, questionID, path)
}

func (s *Syncer) UploadOptionImage(ctx context.Context, optionID uint, path string) (string, error) {
	return s.Options.UploadImage(ctx, optionID, path)
}

func (s *Syncer) ExamQuestionCount(ctx context.Context, examID uint) (int, error) {
	return s.Exams.QuestionCount(ctx, examID)
}

// FetchDraft pulls a persisted exam tree from upstream and rebuilds it
// as an editor draft with fresh local keys and remote IDs filled in, so
// editing an existing exam starts from the server's truth.
func (s *Syncer) FetchDraft(ctx context.Context, examID uint) (*editor.ExamDraft, error) {
	exam, err := s.Exams.Get(ctx, examID)
	if err != nil {
		return nil, err
	}

	d := &editor.ExamDraft{
		Exam: editor.ExamMeta{
			RemoteID:        exam.ID,
			Title:           exam.Title,
			Description:     exam.Description,
			DurationMinutes: exam.DurationMinutes,
			TotalMarks:      exam.TotalMarks,
			PassPercentage:  exam.PassPercentage,
			Price:           exam.Price,
			DiscountPrice:   exam.DiscountPrice,
			StartDate:       exam.StartDate,
			EndDate:         exam.EndDate,
			Status:          exam.Status,
			Anytime:         exam.Status == editor.ExamStatusAnytime,
			IsPublished:     exam.IsPublished,
			CategoryID:      exam.CategoryID,
			SubcategoryID:   exam.SubcategoryID,
			ExamType:        exam.ExamType,
			Syllabus:        exam.Syllabus,
			Banner:          editor.ImageSlot{RemoteURL: exam.BannerURL},
		},
	}

	secs, err := s.Sections.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	for _, rs := range secs {
		sec := &editor.Section{
			Key:              uuid.NewString(),
			RemoteID:         rs.ID,
			Name:             rs.Name,
			Order:            rs.SectionOrder,
			MarksPerQuestion: rs.MarksPerQuestion,
			DurationMinutes:  rs.DurationMinutes,
		}
		qs, err := s.Questions.ListBySection(ctx, rs.ID)
		if err != nil {
			return nil, err
		}
		for _, rq := range qs {
			q := &editor.Question{
				Key:           uuid.NewString(),
				RemoteID:      rq.ID,
				Type:          rq.Type,
				Text:          rq.Text,
				TextHindi:     rq.TextHindi,
				Explanation:   rq.Explanation,
				Marks:         rq.Marks,
				NegativeMarks: rq.NegativeMarks,
				DifficultyID:  rq.DifficultyID,
				Order:         rq.QuestionOrder,
				CorrectNumber: rq.CorrectNumber,
				Tolerance:     rq.Tolerance,
				Image:         editor.ImageSlot{RemoteURL: rq.ImageURL},
			}
			for _, ro := range rq.Options {
				q.Options = append(q.Options, &editor.Option{
					Key:       uuid.NewString(),
					RemoteID:  ro.ID,
					Text:      ro.Text,
					TextHindi: ro.TextHindi,
					IsCorrect: ro.IsCorrect,
					Order:     ro.OptionOrder,
					Image:     editor.ImageSlot{RemoteURL: ro.ImageURL},
				})
			}
			sec.Questions = append(sec.Questions, q)
		}
		d.Sections = append(d.Sections, sec)
	}
	return d, nil
}
