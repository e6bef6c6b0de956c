package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
)

func TestDecodeReply(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    Reply
	}{
		{
			name:    "bare command object",
			content: `{"command":"send 50 usdc 0x00000000000000000000000000000000000000bb"}`,
			want:    Reply{Kind: KindCommand, Command: "send 50 usdc 0x00000000000000000000000000000000000000bb"},
		},
		{
			name:    "message object",
			content: `{"message":"Aave is a decentralized lending protocol."}`,
			want:    Reply{Kind: KindMessage, Message: "Aave is a decentralized lending protocol."},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"command\":\"swap 0.5 weth for dai\"}\n```",
			want:    Reply{Kind: KindCommand, Command: "swap 0.5 weth for dai"},
		},
		{
			name:    "json buried in prose",
			content: `Sure! Here is the command: {"command":"deposit all usdc"} Let me know if you need more.`,
			want:    Reply{Kind: KindCommand, Command: "deposit all usdc"},
		},
		{
			name:    "plain prose degrades to message",
			content: "I can only help with sends and swaps.",
			want:    Reply{Kind: KindMessage, Message: "I can only help with sends and swaps."},
		},
		{
			name:    "empty object degrades to message",
			content: `{}`,
			want:    Reply{Kind: KindMessage, Message: `{}`},
		},
		{
			name:    "braces inside string do not break extraction",
			content: `{"message":"use {amount} {token}"}`,
			want:    Reply{Kind: KindMessage, Message: "use {amount} {token}"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeReply(tc.content)
			if got != tc.want {
				t.Fatalf("DecodeReply(%q) = %+v, want %+v", tc.content, got, tc.want)
			}
		})
	}
}

func TestTranscriptRenderAndCap(t *testing.T) {
	tr := NewTranscript()
	if tr.SessionID == "" {
		t.Fatal("transcript must carry a session id")
	}
	tr.AddUser("send 50 usdc to bob")
	tr.AddAssistant(`{"command":"send 50 usdc 0xbb"}`)

	rendered := tr.Render()
	if !strings.Contains(rendered, "User: send 50 usdc to bob") {
		t.Fatalf("missing user line in %q", rendered)
	}
	if !strings.Contains(rendered, "Assistant: ") {
		t.Fatalf("missing assistant line in %q", rendered)
	}

	for i := 0; i < 30; i++ {
		tr.AddUser("ping")
	}
	if tr.Len() != maxTurns {
		t.Fatalf("transcript grew past the cap: %d", tr.Len())
	}
	if strings.Contains(tr.Render(), "send 50 usdc to bob") {
		t.Fatal("oldest turns must fall off the front")
	}
}

func TestClientCompleteDecodesCommand(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"command\":\"swap 0.5 weth for dai\"}"}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	tr := NewTranscript()
	tr.AddUser("what can you do?")
	tr.AddAssistant("I parse sends and swaps.")

	reply, err := client.Complete(context.Background(), PersonaSendSwap, tr, "swap half an eth worth of weth to dai")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply.Kind != KindCommand || reply.Command != "swap 0.5 weth for dai" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("unexpected message shape: %+v", gotBody.Messages)
	}
	if !strings.Contains(gotBody.Messages[1].Content, "User: what can you do?") {
		t.Fatal("transcript history must ride along in the user message")
	}
	if gotBody.Temperature != 0 {
		t.Fatalf("parsing personas must run at temperature 0, got %v", gotBody.Temperature)
	}
}

func TestClientCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = client.Complete(context.Background(), PersonaLending, nil, "what is aave?")
	if !clierr.Is(err, clierr.CodeUnavailable) {
		t.Fatalf("expected Unavailable, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}); !clierr.Is(err, clierr.CodeUsage) {
		t.Fatalf("expected Usage error, got %v", err)
	}
}

func TestPersonaPrompts(t *testing.T) {
	if !strings.Contains(PersonaSendSwap.SystemPrompt(), "send <amount> <token> <recipient>") {
		t.Fatal("send/swap persona must document the send format")
	}
	if !strings.Contains(PersonaLending.SystemPrompt(), "interestRateMode") {
		t.Fatal("lending persona must document rate modes")
	}
	if !strings.Contains(PersonaTrading.SystemPrompt(), "trade buy <token>") {
		t.Fatal("trading persona must document the trade format")
	}
}
