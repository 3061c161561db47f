package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbed_Success(t *testing.T) {
	var gotReq embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %q, want /api/embeddings", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Model: "nomic-embed-text"})

	emb, err := svc.Embed(context.Background(), "fuel quality")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(emb) != 3 {
		t.Errorf("embedding length = %d", len(emb))
	}
	if gotReq.Prompt != "fuel quality" {
		t.Errorf("prompt = %q", gotReq.Prompt)
	}
}

func TestEmbedBatch_SequentialCalls(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{float64(calls)}})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("embed batch: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if embeddings[0][0] != 1 || embeddings[2][0] != 3 {
		t.Errorf("batch out of order: %v", embeddings)
	}
}

func TestEmbedBatch_StopsOnFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, "model overloaded", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{1}})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDefaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	if svc.ModelName() != DefaultModel {
		t.Errorf("model = %q", svc.ModelName())
	}
	if svc.Dimensions() != DefaultDimensions {
		t.Errorf("dimensions = %d", svc.Dimensions())
	}
}
