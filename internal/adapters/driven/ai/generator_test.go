package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestNewGenerator_DefaultModel(t *testing.T) {
	g, err := NewGenerator(GeneratorConfig{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Model() == "" {
		t.Error("expected a default model")
	}
}

func TestGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != openai.ChatMessageRoleUser {
			t.Errorf("expected single user message, got %v", req.Messages)
		}
		if req.Messages[0].Content == "" {
			t.Error("expected prompt to be forwarded")
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    openai.ChatMessageRoleAssistant,
						Content: "Paris is the capital of France.",
					},
					FinishReason: openai.FinishReasonStop,
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	g, err := NewGenerator(GeneratorConfig{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, err := g.Generate(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Paris is the capital of France." {
		t.Errorf("unexpected answer: %q", answer)
	}
}

func TestGenerator_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "requests"}}`))
	}))
	defer server.Close()

	g, _ := NewGenerator(GeneratorConfig{APIKey: "sk-test", BaseURL: server.URL})

	_, err := g.Generate(context.Background(), "a question")
	if err == nil {
		t.Fatal("expected error from rate-limited API")
	}
}

func TestGenerator_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	g, _ := NewGenerator(GeneratorConfig{APIKey: "sk-test", BaseURL: server.URL})

	_, err := g.Generate(context.Background(), "a question")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestGenerator_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("expected /models, got %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(openai.ModelsList{})
	}))
	defer server.Close()

	g, _ := NewGenerator(GeneratorConfig{APIKey: "sk-test", BaseURL: server.URL})

	if err := g.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
