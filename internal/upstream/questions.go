package upstream

import (
	"context"
	"fmt"
	"net/http"
)

type Question struct {
	ID            uint     `json:"id"`
	SectionID     uint     `json:"section_id"`
	Type          string   `json:"type"`
	Text          string   `json:"text"`
	TextHindi     string   `json:"text_hindi"`
	Explanation   string   `json:"explanation"`
	Marks         float64  `json:"marks"`
	NegativeMarks float64  `json:"negative_marks"`
	DifficultyID  uint     `json:"difficulty_id"`
	QuestionOrder int      `json:"question_order"`
	CorrectNumber *float64 `json:"correct_number"`
	Tolerance     *float64 `json:"tolerance"`
	ImageURL      string   `json:"image_url"`
	Options       []Option `json:"options,omitempty"`
}

type QuestionPayload struct {
	SectionID     uint     `json:"section_id"`
	Type          string   `json:"type"`
	Text          string   `json:"text"`
	TextHindi     string   `json:"text_hindi"`
	Explanation   string   `json:"explanation"`
	Marks         float64  `json:"marks"`
	NegativeMarks float64  `json:"negative_marks"`
	DifficultyID  uint     `json:"difficulty_id"`
	QuestionOrder int      `json:"question_order"`
	CorrectNumber *float64 `json:"correct_number,omitempty"`
	Tolerance     *float64 `json:"tolerance,omitempty"`
}

type QuestionsService struct {
	client *Client
}

func NewQuestionsService(client *Client) *QuestionsService {
	return &QuestionsService{client: client}
}

func (s *QuestionsService) Create(ctx context.Context, p QuestionPayload) (*Question, error) {
	var q Question
	_, err := s.client.do(ctx, http.MethodPost, "/admin/questions", p, &q)
	return &q, err
}

func (s *QuestionsService) Update(ctx context.Context, id uint, p QuestionPayload) (*Question, error) {
	var q Question
	_, err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/admin/questions/%d", id), p, &q)
	return &q, err
}

func (s *QuestionsService) Delete(ctx context.Context, id uint) error {
	_, err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/questions/%d", id), nil, nil)
	return err
}

// ListBySection fetches a section's questions with their options.
func (s *QuestionsService) ListBySection(ctx context.Context, sectionID uint) ([]Question, error) {
	var qs []Question
	_, err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/admin/sections/%d/questions", sectionID), nil, &qs)
	return qs, err
}

// UploadImage attaches an image to a persisted question and returns the
// stored URL.
func (s *QuestionsService) UploadImage(ctx context.Context, id uint, filePath string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	_, err := s.client.doMultipart(ctx, http.MethodPost, fmt.Sprintf("/admin/questions/%d/image", id), nil, "file", filePath, &out)
	return out.URL, err
}

func (s *QuestionsService) RemoveImage(ctx context.Context, id uint) error {
	_, err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/questions/%d/image", id), nil, nil)
	return err
}
