package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"jobseeker-backend/internal/llm"
	"jobseeker-backend/internal/shared/telemetry"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

const (
	systemPromptStrict  = "You are a resume review engine. Respond with JSON only. Output must match the schema exactly."
	systemPromptFixJSON = "You are a JSON repair tool. Return only valid JSON that matches the schema exactly."
)

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateCritique produces a structured critique of the resume, against the
// posting when one is given.
func (c *Client) GenerateCritique(ctx context.Context, input llm.CritiqueInput) (json.RawMessage, error) {
	template := llm.CritiquePrompt(input.PostingJSON != "")
	user := critiqueUserPrompt(input)
	return c.generate(ctx, "critique", template, user)
}

// GenerateRevision produces a rewritten resume payload from the critique.
func (c *Client) GenerateRevision(ctx context.Context, input llm.RevisionInput) (json.RawMessage, error) {
	template := llm.RevisionPrompt(input.PostingJSON != "")
	user := revisionUserPrompt(input)
	return c.generate(ctx, "revision", template, user)
}

// generate runs one chat completion and retries once through the fix-JSON
// prompt when the model returns malformed output.
func (c *Client) generate(ctx context.Context, kind, template, user string) (json.RawMessage, error) {
	messages := []chatMessage{
		{Role: "system", Content: systemPromptStrict},
		{Role: "developer", Content: template},
		{Role: "user", Content: user},
	}
	raw, usage, err := c.chatOnce(ctx, messages)
	if err != nil {
		return nil, err
	}
	logUsage(c.model, kind, usage)

	if json.Valid(raw) {
		return raw, nil
	}

	fixMessages := []chatMessage{
		{Role: "system", Content: systemPromptFixJSON},
		{Role: "developer", Content: template},
		{Role: "user", Content: fixUserPrompt(raw)},
	}
	raw, usage, err = c.chatOnce(ctx, fixMessages)
	if err != nil {
		return nil, err
	}
	logUsage(c.model, kind+"_fix", usage)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("invalid JSON from OpenAI")
	}
	return raw, nil
}

func (c *Client) chatOnce(ctx context.Context, messages []chatMessage) (json.RawMessage, *chatResponseUsage, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: responseFormat{
			Type: "json_object",
		},
	}
	reqBody.Temperature = &temp
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, nil, fmt.Errorf("openai request timeout: %w", err)
		}
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return nil, nil, fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, nil, fmt.Errorf("openai response empty content")
	}
	return json.RawMessage(content), toUsage(parsed.Usage), nil
}

func critiqueUserPrompt(input llm.CritiqueInput) string {
	var b strings.Builder
	b.WriteString("Resume:\n")
	b.WriteString(input.ResumeJSON)
	if input.PostingJSON != "" {
		b.WriteString("\n\nJob posting:\n")
		b.WriteString(input.PostingJSON)
	}
	return b.String()
}

func revisionUserPrompt(input llm.RevisionInput) string {
	var b strings.Builder
	b.WriteString("Resume:\n")
	b.WriteString(input.ResumeJSON)
	b.WriteString("\n\nRecruiter feedback:\n")
	b.WriteString(input.CritiqueJSON)
	if input.PostingJSON != "" {
		b.WriteString("\n\nJob posting:\n")
		b.WriteString(input.PostingJSON)
	}
	return b.String()
}

func fixUserPrompt(raw []byte) string {
	return "The following output is not valid JSON. Repair it so it parses and matches the schema exactly:\n\n" + string(raw)
}

type chatResponseUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

func toUsage(raw *struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}) *chatResponseUsage {
	if raw == nil {
		return nil
	}
	return &chatResponseUsage{
		PromptTokens:     raw.PromptTokens,
		CompletionTokens: raw.CompletionTokens,
		TotalTokens:      raw.TotalTokens,
	}
}

func logUsage(model, kind string, usage *chatResponseUsage) {
	fields := map[string]any{"model": model, "kind": kind}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokens
		fields["completion_tokens"] = usage.CompletionTokens
		fields["total_tokens"] = usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
