package upstream

import (
	"context"
	"fmt"
	"net/http"
)

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Subcategory struct {
	ID         uint   `json:"id"`
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

type Difficulty struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type TaxonomyService struct {
	client *Client
}

func NewTaxonomyService(client *Client) *TaxonomyService {
	return &TaxonomyService{client: client}
}

func (s *TaxonomyService) Categories(ctx context.Context, page, limit int) ([]Category, *Pagination, error) {
	var cats []Category
	pg, err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/taxonomy/categories?page=%d&limit=%d", page, limit), nil, &cats)
	return cats, pg, err
}

func (s *TaxonomyService) Subcategories(ctx context.Context, categoryID uint, page, limit int) ([]Subcategory, *Pagination, error) {
	var subs []Subcategory
	path := fmt.Sprintf("/taxonomy/subcategories?page=%d&limit=%d", page, limit)
	if categoryID != 0 {
		path += fmt.Sprintf("&category_id=%d", categoryID)
	}
	pg, err := s.client.do(ctx, http.MethodGet, path, nil, &subs)
	return subs, pg, err
}

func (s *TaxonomyService) Difficulties(ctx context.Context) ([]Difficulty, error) {
	var diffs []Difficulty
	_, err := s.client.do(ctx, http.MethodGet, "/taxonomy/difficulties", nil, &diffs)
	return diffs, err
}
