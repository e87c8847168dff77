package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/stylemate/stylekit/core"
)

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			t.Errorf("path = %s, want /embed", r.URL.Path)
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "wool coat" {
			t.Errorf("text = %q", req.Text)
		}
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	c := NewHTTPEmbedder(srv.URL + "/") // 尾斜杠应被归一化
	vec, err := c.Embed(context.Background(), "wool coat")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("vec = %v", vec)
	}
}

func TestEmbedFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "empty vector",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"embedding":[]}`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewHTTPEmbedder(srv.URL)
			if _, err := c.Embed(context.Background(), "x"); !core.IsUnavailable(err) {
				t.Errorf("error = %v, want UNAVAILABLE", err)
			}
		})
	}
}

func TestEmbedNotConfigured(t *testing.T) {
	c := NewHTTPEmbedder("")
	if _, err := c.Embed(context.Background(), "x"); !core.IsUnavailable(err) {
		t.Errorf("error = %v, want UNAVAILABLE", err)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s, want /health", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewHTTPEmbedder(srv.URL)
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}

	down := NewHTTPEmbedder("http://127.0.0.1:1")
	if err := down.Health(context.Background()); !core.IsUnavailable(err) {
		t.Errorf("error = %v, want UNAVAILABLE", err)
	}
}
