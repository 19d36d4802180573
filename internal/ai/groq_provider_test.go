package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"coldreach/internal/model"
)

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func completionBody(content string) chatResponse {
	var resp chatResponse
	resp.Choices = make([]struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}, 1)
	resp.Choices[0].Message.Content = content
	return resp
}

func TestComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, completionBody(`[{"role":"Engineer"}]`))

	provider := NewGroqProvider(srv.URL, "test-key", "test-model", client)
	got, err := provider.Complete(context.Background(), "extract jobs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `[{"role":"Engineer"}]` {
		t.Errorf("got %q, want raw completion content", got)
	}
}

func TestComplete_HTTPErrorIsModelInvocationError(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusUnauthorized, map[string]string{"error": "invalid key"})

	provider := NewGroqProvider(srv.URL, "bad-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "hello")

	var modelErr *model.ModelInvocationError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected *model.ModelInvocationError, got %v", err)
	}
}

func TestComplete_APIErrorField(t *testing.T) {
	body := map[string]any{
		"error": map[string]string{"message": "model overloaded", "type": "server_error"},
	}
	srv, client := makeTestServer(t, http.StatusOK, body)

	provider := NewGroqProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error when response carries an error field")
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, chatResponse{})

	provider := NewGroqProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error when response has no choices")
	}
}

func TestComplete_SetsAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionBody("ok"))
	}))
	defer srv.Close()

	provider := NewGroqProvider(srv.URL, "my-secret-key", "test-model", srv.Client())
	_, _ = provider.Complete(context.Background(), "hello")

	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}
