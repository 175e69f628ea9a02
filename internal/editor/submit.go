package editor

import (
	"context"
	"fmt"
	"strings"
)

// Backend is the slice of the upstream API the submitter needs. Creates
// return the server-assigned ID; updates are keyed by it. The submitter
// never looks past this contract.
type Backend interface {
	CreateExam(ctx context.Context, meta *ExamMeta, publish bool) (uint, error)
	UpdateExam(ctx context.Context, meta *ExamMeta, publish bool) (uint, error)
	CreateSection(ctx context.Context, examID uint, s *Section) (uint, error)
	UpdateSection(ctx context.Context, examID uint, s *Section) (uint, error)
	CreateQuestion(ctx context.Context, sectionID uint, q *Question) (uint, error)
	UpdateQuestion(ctx context.Context, sectionID uint, q *Question) (uint, error)
	CreateOption(ctx context.Context, questionID uint, o *Option) (uint, error)
	UpdateOption(ctx context.Context, questionID uint, o *Option) (uint, error)
	UploadQuestionImage(ctx context.Context, questionID uint, path string) (string, error)
	UploadOptionImage(ctx context.Context, optionID uint, path string) (string, error)
	ExamQuestionCount(ctx context.Context, examID uint) (int, error)
}

type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type ProgressFunc func(Progress)

type ImageFailure struct {
	Kind string `json:"kind"` // "question" or "option"
	Key  string `json:"key"`
	Err  string `json:"error"`
}

const (
	OutcomeOK            = "ok"
	OutcomeImageFailures = "image_failures"
	OutcomeCountMismatch = "count_mismatch"
)

type Outcome struct {
	Status            string         `json:"status"`
	ExamID            uint           `json:"exam_id"`
	ImageFailures     []ImageFailure `json:"image_failures,omitempty"`
	ExpectedQuestions int            `json:"expected_questions"`
	SyncedQuestions   int            `json:"synced_questions"`
}

// PublishError reports publish refused because of outstanding
// validation violations. No network call has happened when it is
// returned.
type PublishError struct {
	Violations []string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("cannot publish: %d validation violations (%s)",
		len(e.Violations), strings.Join(e.Violations, "; "))
}

// Total returns the number of sync steps for a full pass over the tree:
// one for the exam plus one per section, question and syncable option.
// Image uploads are a trailing batch and not counted.
func (d *ExamDraft) Total() int {
	return 1 + len(d.Sections) + d.CountQuestions() + d.CountOptions()
}

type Submitter struct {
	backend Backend
}

func NewSubmitter(backend Backend) *Submitter {
	return &Submitter{backend: backend}
}

// Submit drives one ordered persistence pass over the draft tree.
//
// Children need parent-assigned IDs, so the walk is strictly sequential:
// exam first, then each section, its questions, their options. Every node
// takes the create branch when it has no remote ID and the update branch
// otherwise, so a re-run after a partial failure is idempotent: nothing
// already persisted is created twice. Server IDs are folded back
// into the tree as they arrive, even when a later step fails.
//
// Staged images are uploaded after the tree pass as an unordered batch;
// each failure is collected instead of aborting the rest.
func (s *Submitter) Submit(ctx context.Context, d *ExamDraft, publish bool, report ProgressFunc) (*Outcome, error) {
	if publish {
		if v := Validate(d); !v.OK() {
			return nil, &PublishError{Violations: v.Violations}
		}
	}
	d.Exam.IsPublished = publish

	total := d.Total()
	completed := 0
	step := func() {
		completed++
		if report != nil {
			report(Progress{Completed: completed, Total: total})
		}
	}

	var err error
	if d.Exam.RemoteID == 0 {
		d.Exam.RemoteID, err = s.backend.CreateExam(ctx, &d.Exam, publish)
	} else {
		_, err = s.backend.UpdateExam(ctx, &d.Exam, publish)
	}
	if err != nil {
		return nil, fmt.Errorf("save exam: %w", err)
	}
	step()

	for _, sec := range d.Sections {
		if sec.RemoteID == 0 {
			sec.RemoteID, err = s.backend.CreateSection(ctx, d.Exam.RemoteID, sec)
		} else {
			_, err = s.backend.UpdateSection(ctx, d.Exam.RemoteID, sec)
		}
		if err != nil {
			return nil, fmt.Errorf("save section %q: %w", sec.Name, err)
		}
		step()

		for _, q := range sec.Questions {
			if q.RemoteID == 0 {
				q.RemoteID, err = s.backend.CreateQuestion(ctx, sec.RemoteID, q)
			} else {
				_, err = s.backend.UpdateQuestion(ctx, sec.RemoteID, q)
			}
			if err != nil {
				return nil, fmt.Errorf("save question %d in section %q: %w", q.Order, sec.Name, err)
			}
			step()

			if !HasOptions(q.Type) {
				continue
			}
			for _, o := range q.Options {
				if o.RemoteID == 0 {
					o.RemoteID, err = s.backend.CreateOption(ctx, q.RemoteID, o)
				} else {
					_, err = s.backend.UpdateOption(ctx, q.RemoteID, o)
				}
				if err != nil {
					return nil, fmt.Errorf("save option %d of question %d in section %q: %w",
						o.Order, q.Order, sec.Name, err)
				}
				step()
			}
		}
	}

	outcome := &Outcome{
		Status:            OutcomeOK,
		ExamID:            d.Exam.RemoteID,
		ExpectedQuestions: d.CountQuestions(),
	}
	outcome.ImageFailures = s.uploadImages(ctx, d)
	if len(outcome.ImageFailures) > 0 {
		outcome.Status = OutcomeImageFailures
	}

	synced, err := s.backend.ExamQuestionCount(ctx, d.Exam.RemoteID)
	if err == nil {
		outcome.SyncedQuestions = synced
		if synced != outcome.ExpectedQuestions {
			outcome.Status = OutcomeCountMismatch
		}
	} else {
		outcome.SyncedQuestions = outcome.ExpectedQuestions
	}

	return outcome, nil
}

func (s *Submitter) uploadImages(ctx context.Context, d *ExamDraft) []ImageFailure {
	var failures []ImageFailure
	for _, sec := range d.Sections {
		for _, q := range sec.Questions {
			if q.Image.Staged() && q.RemoteID != 0 {
				url, err := s.backend.UploadQuestionImage(ctx, q.RemoteID, q.Image.StagedPath)
				if err != nil {
					failures = append(failures, ImageFailure{Kind: "question", Key: q.Key, Err: err.Error()})
				} else {
					q.Image.SetRemote(url)
				}
			}
			for _, o := range q.Options {
				if !o.Image.Staged() || o.RemoteID == 0 {
					continue
				}
				url, err := s.backend.UploadOptionImage(ctx, o.RemoteID, o.Image.StagedPath)
				if err != nil {
					failures = append(failures, ImageFailure{Kind: "option", Key: o.Key, Err: err.Error()})
				} else {
					o.Image.SetRemote(url)
				}
			}
		}
	}
	return failures
}
