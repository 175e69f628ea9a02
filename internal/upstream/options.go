package upstream

import (
	"context"
	"fmt"
	"net/http"
)

type Option struct {
	ID          uint   `json:"id"`
	QuestionID  uint   `json:"question_id"`
	Text        string `json:"text"`
	TextHindi   string `json:"text_hindi"`
	IsCorrect   bool   `json:"is_correct"`
	OptionOrder int    `json:"option_order"`
	ImageURL    string `json:"image_url"`
}

type OptionPayload struct {
	QuestionID  uint   `json:"question_id"`
	Text        string `json:"text"`
	TextHindi   string `json:"text_hindi"`
	IsCorrect   bool   `json:"is_correct"`
	OptionOrder int    `json:"option_order"`
}

type OptionsService struct {
	client *Client
}

func NewOptionsService(client *Client) *OptionsService {
	return &OptionsService{client: client}
}

func (s *OptionsService) Create(ctx context.Context, p OptionPayload) (*Option, error) {
	var o Option
	_, err := s.client.do(ctx, http.MethodPost, "/admin/options", p, &o)
	return &o, err
}

func (s *OptionsService) Update(ctx context.Context, id uint, p OptionPayload) (*Option, error) {
	var o Option
	_, err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/admin/options/%d", id), p, &o)
	return &o, err
}

func (s *OptionsService) Delete(ctx context.Context, id uint) error {
	_, err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/options/%d", id), nil, nil)
	return err
}

func (s *OptionsService) UploadImage(ctx context.Context, id uint, filePath string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	_, err := s.client.doMultipart(ctx, http.MethodPost, fmt.Sprintf("/admin/options/%d/image", id), nil, "file", filePath, &out)
	return out.URL, err
}

func (s *OptionsService) RemoveImage(ctx context.Context, id uint) error {
	_, err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/options/%d/image", id), nil, nil)
	return err
}
