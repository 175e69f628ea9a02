package upstream

import (
	"context"
	"fmt"
	"net/http"
)

type Section struct {
	ID               uint    `json:"id"`
	ExamID           uint    `json:"exam_id"`
	Name             string  `json:"name"`
	SectionOrder     int     `json:"section_order"`
	MarksPerQuestion float64 `json:"marks_per_question"`
	DurationMinutes  int     `json:"duration_minutes"`
}

type SectionPayload struct {
	ExamID           uint    `json:"exam_id"`
	Name             string  `json:"name"`
	SectionOrder     int     `json:"section_order"`
	MarksPerQuestion float64 `json:"marks_per_question"`
	DurationMinutes  int     `json:"duration_minutes"`
}

type SectionsService struct {
	client *Client
}

func NewSectionsService(client *Client) *SectionsService {
	return &SectionsService{client: client}
}

func (s *SectionsService) Create(ctx context.Context, p SectionPayload) (*Section, error) {
	var sec Section
	_, err := s.client.do(ctx, http.MethodPost, "/admin/sections", p, &sec)
	return &sec, err
}

func (s *SectionsService) Update(ctx context.Context, id uint, p SectionPayload) (*Section, error) {
	var sec Section
	_, err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/admin/sections/%d", id), p, &sec)
	return &sec, err
}

func (s *SectionsService) Delete(ctx context.Context, id uint) error {
	_, err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/sections/%d", id), nil, nil)
	return err
}

// ListByExam fetches all sections of an exam, ordered by section_order.
func (s *SectionsService) ListByExam(ctx context.Context, examID uint) ([]Section, error) {
	var secs []Section
	_, err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/admin/exams/%d/sections", examID), nil, &secs)
	return secs, err
}
