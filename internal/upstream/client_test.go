package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDoSetsBearerAndUnwrapsEnvelope(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")

		var payload ExamPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Title != "Mock Exam" {
			t.Errorf("payload title = %q", payload.Title)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 7, "title": "Mock Exam"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok123")
	exam, err := NewExamsService(client).Create(context.Background(), ExamPayload{Title: "Mock Exam"}, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if exam.ID != 7 {
		t.Errorf("exam ID = %d, want 7 from the data field", exam.ID)
	}
}

func TestDoRefusesMutationWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := NewExamsService(client).Create(context.Background(), ExamPayload{}, "")
	if err != ErrNoToken {
		t.Fatalf("got %v, want ErrNoToken", err)
	}
}

func TestSendReportsServerMessageOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "explicit message",
			status:  http.StatusUnprocessableEntity,
			body:    `{"success":false,"message":"title already taken"}`,
			wantMsg: "title already taken",
		},
		{
			name:    "success flag false despite 200",
			status:  http.StatusOK,
			body:    `{"success":false,"message":"quota exceeded"}`,
			wantMsg: "quota exceeded",
		},
		{
			name:    "no message falls back to status",
			status:  http.StatusBadGateway,
			body:    `{"success":false}`,
			wantMsg: "status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "tok")
			_, err := NewExamsService(client).Get(context.Background(), 1)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestDoMultipartCarriesFieldsAndFile(t *testing.T) {
	dir := t.TempDir()
	bannerPath := filepath.Join(dir, "banner.png")
	if err := os.WriteFile(bannerPath, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "With Banner" {
			t.Errorf("title field = %q", got)
		}
		f, header, err := r.FormFile("banner")
		if err != nil {
			t.Fatalf("banner file missing: %v", err)
		}
		defer f.Close()
		if header.Filename != "banner.png" {
			t.Errorf("filename = %q", header.Filename)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 3, "banner_url": "/uploads/banner.png"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	exam, err := NewExamsService(client).Create(context.Background(), ExamPayload{Title: "With Banner"}, bannerPath)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if exam.BannerURL != "/uploads/banner.png" {
		t.Errorf("banner URL = %q", exam.BannerURL)
	}
}

func TestExamUpdateCarriesBannerMultipart(t *testing.T) {
	dir := t.TempDir()
	bannerPath := filepath.Join(dir, "new-banner.jpg")
	if err := os.WriteFile(bannerPath, []byte("jpg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/admin/exams/5" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, header, err := r.FormFile("banner"); err != nil || header.Filename != "new-banner.jpg" {
			t.Errorf("banner file missing or misnamed: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 5, "banner_url": "/uploads/new-banner.jpg"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	exam, err := NewExamsService(client).Update(context.Background(), 5, ExamPayload{Title: "Updated"}, bannerPath)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if exam.BannerURL != "/uploads/new-banner.jpg" {
		t.Errorf("banner URL = %q", exam.BannerURL)
	}
}

func TestDeleteEndpoints(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	tests := []struct {
		name string
		call func() error
		want string
	}{
		{"exam", func() error { return NewExamsService(client).Delete(context.Background(), 1) }, "/admin/exams/1"},
		{"exam banner", func() error { return NewExamsService(client).RemoveBanner(context.Background(), 1) }, "/admin/exams/1/banner"},
		{"section", func() error { return NewSectionsService(client).Delete(context.Background(), 2) }, "/admin/sections/2"},
		{"question", func() error { return NewQuestionsService(client).Delete(context.Background(), 3) }, "/admin/questions/3"},
		{"question image", func() error { return NewQuestionsService(client).RemoveImage(context.Background(), 3) }, "/admin/questions/3/image"},
		{"option", func() error { return NewOptionsService(client).Delete(context.Background(), 4) }, "/admin/options/4"},
		{"option image", func() error { return NewOptionsService(client).RemoveImage(context.Background(), 4) }, "/admin/options/4/image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			if gotPath != tt.want {
				t.Fatalf("path = %q, want %q", gotPath, tt.want)
			}
		})
	}
}

func TestPaginationReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page query = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"data":       []map[string]interface{}{{"id": 1, "name": "SSC"}},
			"pagination": map[string]int{"page": 2, "limit": 10, "total": 25, "totalPages": 3},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	cats, page, err := NewTaxonomyService(client).Categories(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "SSC" {
		t.Fatalf("categories = %+v", cats)
	}
	if page == nil || page.TotalPages != 3 {
		t.Fatalf("pagination = %+v", page)
	}
}

func TestQuestionCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/exams/9/question-count" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]int{"count": 42},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	n, err := NewExamsService(client).QuestionCount(context.Background(), 9)
	if err != nil {
		t.Fatalf("QuestionCount failed: %v", err)
	}
	if n != 42 {
		t.Fatalf("count = %d, want 42", n)
	}
}
