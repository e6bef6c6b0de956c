package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/httpx"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama3-70b-8192"
	defaultTimeout = 60 * time.Second
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Retries int
}

// Client speaks the OpenAI chat completions wire format, which both OpenAI
// and Groq serve. BaseURL selects the vendor; the payload never changes.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *httpx.Client
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, clierr.New(clierr.CodeUsage, "missing model API key; set INTENT_LLM_API_KEY")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		http:    httpx.New(timeout, cfg.Retries),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one user turn plus the session history and decodes the
// structured reply. The transcript is rendered into the user message rather
// than as separate chat turns so the model sees exactly the line format the
// personas document.
func (c *Client) Complete(ctx context.Context, persona Persona, transcript *Transcript, userText string) (Reply, error) {
	var content strings.Builder
	if transcript != nil && transcript.Len() > 0 {
		content.WriteString("Conversation so far:\n")
		content.WriteString(transcript.Render())
		content.WriteString("\n")
	}
	content.WriteString(strings.TrimSpace(userText))

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: persona.SystemPrompt()},
			{Role: "user", Content: content.String()},
		},
		Temperature: 0,
	})
	if err != nil {
		return Reply{}, clierr.Wrap(clierr.CodeInternal, "encode chat request", err)
	}

	var decoded chatResponse
	_, err = httpx.DoBodyJSON(ctx, c.http, http.MethodPost, c.baseURL+"/chat/completions", payload,
		map[string]string{"Authorization": "Bearer " + c.apiKey}, &decoded)
	if err != nil {
		return Reply{}, err
	}
	if len(decoded.Choices) == 0 {
		return Reply{}, clierr.New(clierr.CodeUnavailable, "model endpoint returned no choices")
	}
	raw := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if raw == "" {
		return Reply{}, clierr.New(clierr.CodeUnavailable, "model endpoint returned empty content")
	}
	return DecodeReply(raw), nil
}
