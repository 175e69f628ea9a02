package services

import (
	"encoding/json"
	"errors"
	"sync"

	"exam-authoring-backend/internal/editor"
	"exam-authoring-backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubmitInFlight = errors.New("a submission is already in progress for this draft")

// DraftService persists editor trees as autosave snapshots and
// serializes access so one mutation or submission touches a draft at a
// time. Two authors editing the same upstream exam from separate drafts
// remain last-write-wins by design.
type DraftService struct {
	db *gorm.DB

	mu       sync.Mutex
	locks    map[uint]*sync.Mutex
	inFlight map[uint]bool
}

func NewDraftService(db *gorm.DB) *DraftService {
	return &DraftService{
		db:       db,
		locks:    make(map[uint]*sync.Mutex),
		inFlight: make(map[uint]bool),
	}
}

func (s *DraftService) lock(draftID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[draftID] == nil {
		s.locks[draftID] = &sync.Mutex{}
	}
	return s.locks[draftID]
}

func (s *DraftService) submitting(draftID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[draftID]
}

func (s *DraftService) Create(authorID uint, title string) (*models.Draft, *editor.ExamDraft, error) {
	tree := editor.NewDraft(title)
	payload, err := json.Marshal(tree)
	if err != nil {
		return nil, nil, err
	}

	rec := models.Draft{
		AuthorID: authorID,
		Title:    title,
		Payload:  payload,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, nil, err
	}
	return &rec, tree, nil
}

// CreateFromTree stores an already-built tree, e.g. one fetched from the
// upstream backend for editing.
func (s *DraftService) CreateFromTree(authorID uint, tree *editor.ExamDraft) (*models.Draft, error) {
	payload, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}

	rec := models.Draft{
		AuthorID:     authorID,
		Title:        tree.Exam.Title,
		ExamRemoteID: tree.Exam.RemoteID,
		Published:    tree.Exam.IsPublished,
		Payload:      payload,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *DraftService) List(authorID uint) ([]models.Draft, error) {
	var drafts []models.Draft
	err := s.db.Where("author_id = ?", authorID).
		Order("updated_at DESC").
		Find(&drafts).Error
	return drafts, err
}

func (s *DraftService) Get(draftID, authorID uint) (*models.Draft, *editor.ExamDraft, error) {
	var rec models.Draft
	if err := s.db.Where("id = ? AND author_id = ?", draftID, authorID).First(&rec).Error; err != nil {
		return nil, nil, errors.New("draft not found")
	}

	var tree editor.ExamDraft
	if err := json.Unmarshal(rec.Payload, &tree); err != nil {
		return nil, nil, err
	}
	return &rec, &tree, nil
}

func (s *DraftService) Delete(draftID, authorID uint) error {
	result := s.db.Where("id = ? AND author_id = ?", draftID, authorID).Delete(&models.Draft{})
	if result.RowsAffected == 0 {
		return errors.New("draft not found")
	}
	return result.Error
}

// Save writes the tree back as the new autosave snapshot.
func (s *DraftService) Save(draftID, authorID uint, tree *editor.ExamDraft) error {
	payload, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return s.db.Model(&models.Draft{}).
		Where("id = ? AND author_id = ?", draftID, authorID).
		Updates(map[string]interface{}{
			"title":          tree.Exam.Title,
			"exam_remote_id": tree.Exam.RemoteID,
			"published":      tree.Exam.IsPublished,
			"payload":        payload,
		}).Error
}

// Mutate loads the tree, applies fn under the draft's lock and persists
// the result. Mutations refused while a submission is running. The flag
// is re-checked after taking the lock: BeginSubmit sets it while holding
// the same lock, so a mutation that raced past the first check cannot
// still be writing once the submission starts.
func (s *DraftService) Mutate(draftID, authorID uint, fn func(*editor.ExamDraft) error) (*editor.ExamDraft, error) {
	if s.submitting(draftID) {
		return nil, ErrSubmitInFlight
	}

	lock := s.lock(draftID)
	lock.Lock()
	defer lock.Unlock()

	if s.submitting(draftID) {
		return nil, ErrSubmitInFlight
	}

	_, tree, err := s.Get(draftID, authorID)
	if err != nil {
		return nil, err
	}
	if err := fn(tree); err != nil {
		return nil, err
	}
	if err := s.Save(draftID, authorID, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// BeginSubmit marks a draft as having a submission in flight. The flag
// is what the UI's disabled submit button becomes server-side. It takes
// the draft's lock before setting the flag, so it blocks until any
// in-progress mutation has finished its save; once the flag is up,
// Mutate refuses new edits and the submission owns the draft.
func (s *DraftService) BeginSubmit(draftID uint) error {
	if s.submitting(draftID) {
		return ErrSubmitInFlight
	}

	lock := s.lock(draftID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[draftID] {
		return ErrSubmitInFlight
	}
	s.inFlight[draftID] = true
	return nil
}

func (s *DraftService) EndSubmit(draftID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, draftID)
}
