package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChatWithMessages(t *testing.T) {
	var gotRequest ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer test-key", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		resp := ChatResponse{
			Choices: []ChatChoice{
				{Message: ChatChoiceMessage{Role: "assistant", Content: "hola"}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "default-model")

	messages := []Message{
		{Role: "system", Content: "contexto"},
		{Role: "user", Content: "pregunta"},
	}
	answer, err := client.ChatWithMessages(context.Background(), messages, ChatParams{Temperature: 0.7})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}

	if answer != "hola" {
		t.Errorf("answer = %q, want hola", answer)
	}
	if gotRequest.Model != "default-model" {
		t.Errorf("request model = %q, want client default", gotRequest.Model)
	}
	if len(gotRequest.Messages) != 2 || gotRequest.Messages[0].Role != "system" {
		t.Errorf("request messages = %+v, want system+user", gotRequest.Messages)
	}
	if gotRequest.Temperature != 0.7 {
		t.Errorf("request temperature = %v, want 0.7", gotRequest.Temperature)
	}
}

func TestChatWithMessagesModelOverride(t *testing.T) {
	var gotRequest ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Choices: []ChatChoice{{Message: ChatChoiceMessage{Content: "ok"}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "default-model")
	_, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "q"}}, ChatParams{Model: "other-model"})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}

	if gotRequest.Model != "other-model" {
		t.Errorf("request model = %q, want other-model", gotRequest.Model)
	}
}

func TestChatWithMessagesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "model")
	_, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "q"}}, ChatParams{})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "bad status 500") {
		t.Errorf("error = %v, want bad status", err)
	}
}

func TestChatWithMessagesNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "model")
	_, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "q"}}, ChatParams{})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}
