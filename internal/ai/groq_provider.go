package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"coldreach/internal/model"
)

// GroqProvider calls an OpenAI-compatible /chat/completions endpoint.
// Temperature is pinned to 0 so extraction output is as deterministic as the
// model allows. The response is returned verbatim; no schema is enforced
// server-side because the extractor must tolerate malformed output anyway.
type GroqProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGroqProvider creates a provider targeting baseURL (e.g. the Groq API).
func NewGroqProvider(baseURL, apiKey, llmModel string, httpClient *http.Client) *GroqProvider {
	return &GroqProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      llmModel,
		httpClient: httpClient,
	}
}

// chatRequest mirrors the OpenAI-compatible /chat/completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature int           `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse mirrors the relevant fields of the completion response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends prompt and returns the model's raw text response.
// Transport, auth and API-level failures surface as *model.ModelInvocationError.
func (p *GroqProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &model.ModelInvocationError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := p.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &model.ModelInvocationError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &model.ModelInvocationError{Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &model.ModelInvocationError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &model.ModelInvocationError{
			Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBytes)),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", &model.ModelInvocationError{Err: fmt.Errorf("parse response: %w", err)}
	}

	if chatResp.Error != nil {
		return "", &model.ModelInvocationError{
			Err: fmt.Errorf("api error (%s): %s", chatResp.Error.Type, chatResp.Error.Message),
		}
	}

	if len(chatResp.Choices) == 0 {
		return "", &model.ModelInvocationError{Err: fmt.Errorf("no choices in response")}
	}

	return chatResp.Choices[0].Message.Content, nil
}
