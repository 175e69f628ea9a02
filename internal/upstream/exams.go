package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Exam is the upstream representation of an exam row.
type Exam struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalMarks      float64    `json:"total_marks"`
	PassPercentage  float64    `json:"pass_percentage"`
	Price           float64    `json:"price"`
	DiscountPrice   float64    `json:"discount_price"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Status          string     `json:"status"`
	IsPublished     bool       `json:"is_published"`
	CategoryID      uint       `json:"category_id"`
	SubcategoryID   uint       `json:"subcategory_id"`
	ExamType        string     `json:"exam_type"`
	Syllabus        []string   `json:"syllabus"`
	BannerURL       string     `json:"banner_url"`
}

type ExamPayload struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalMarks      float64    `json:"total_marks"`
	PassPercentage  float64    `json:"pass_percentage"`
	Price           float64    `json:"price"`
	DiscountPrice   float64    `json:"discount_price"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Status          string     `json:"status"`
	IsPublished     bool       `json:"is_published"`
	CategoryID      uint       `json:"category_id"`
	SubcategoryID   uint       `json:"subcategory_id"`
	ExamType        string     `json:"exam_type"`
	Syllabus        []string   `json:"syllabus"`
}

type ExamsService struct {
	client *Client
}

func NewExamsService(client *Client) *ExamsService {
	return &ExamsService{client: client}
}

// Create persists a new exam. A non-empty bannerPath switches the call
// to multipart so metadata and media land in one request.
func (s *ExamsService) Create(ctx context.Context, p ExamPayload, bannerPath string) (*Exam, error) {
	var exam Exam
	if bannerPath != "" {
		_, err := s.client.doMultipart(ctx, http.MethodPost, "/admin/exams", examFields(p), "banner", bannerPath, &exam)
		return &exam, err
	}
	_, err := s.client.do(ctx, http.MethodPost, "/admin/exams", p, &exam)
	return &exam, err
}

func (s *ExamsService) Update(ctx context.Context, id uint, p ExamPayload, bannerPath string) (*Exam, error) {
	var exam Exam
	path := fmt.Sprintf("/admin/exams/%d", id)
	if bannerPath != "" {
		_, err := s.client.doMultipart(ctx, http.MethodPut, path, examFields(p), "banner", bannerPath, &exam)
		return &exam, err
	}
	_, err := s.client.do(ctx, http.MethodPut, path, p, &exam)
	return &exam, err
}

func (s *ExamsService) Get(ctx context.Context, id uint) (*Exam, error) {
	var exam Exam
	_, err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/admin/exams/%d", id), nil, &exam)
	return &exam, err
}

func (s *ExamsService) Delete(ctx context.Context, id uint) error {
	_, err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/exams/%d", id), nil, nil)
	return err
}

func (s *ExamsService) RemoveBanner(ctx context.Context, id uint) error {
	_, err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/exams/%d/banner", id), nil, nil)
	return err
}

// QuestionCount returns the server-side persisted question count for an
// exam, used as a safety check against partial writes.
func (s *ExamsService) QuestionCount(ctx context.Context, id uint) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	_, err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/admin/exams/%d/question-count", id), nil, &out)
	return out.Count, err
}

func examFields(p ExamPayload) map[string]string {
	fields := map[string]string{
		"title":            p.Title,
		"description":      p.Description,
		"duration_minutes": strconv.Itoa(p.DurationMinutes),
		"total_marks":      formatFloat(p.TotalMarks),
		"pass_percentage":  formatFloat(p.PassPercentage),
		"price":            formatFloat(p.Price),
		"discount_price":   formatFloat(p.DiscountPrice),
		"status":           p.Status,
		"is_published":     strconv.FormatBool(p.IsPublished),
		"category_id":      strconv.FormatUint(uint64(p.CategoryID), 10),
		"subcategory_id":   strconv.FormatUint(uint64(p.SubcategoryID), 10),
		"exam_type":        p.ExamType,
		"syllabus":         strings.Join(p.Syllabus, "\n"),
	}
	if p.StartDate != nil {
		fields["start_date"] = p.StartDate.Format(time.RFC3339)
	}
	if p.EndDate != nil {
		fields["end_date"] = p.EndDate.Format(time.RFC3339)
	}
	return fields
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
