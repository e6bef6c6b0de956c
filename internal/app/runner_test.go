package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ggonzalez94/intent-cli/internal/model"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	runner := NewRunnerWithStreams(&stdout, &stderr, strings.NewReader(""))
	code := runner.Run(args)
	return code, stdout.String(), stderr.String()
}

func decodeEnvelope(t *testing.T, raw string) model.Envelope {
	t.Helper()
	var env model.Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("output is not an envelope: %v\n%s", err, raw)
	}
	return env
}

func TestParseCommandEmitsEnvelope(t *testing.T) {
	code, stdout, stderr := runCLI(t, "parse", "swap", "0.5", "weth", "for", "dai", "--json")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	env := decodeEnvelope(t, stdout)
	if !env.Success {
		t.Fatalf("expected success envelope: %s", stdout)
	}
	data, _ := json.Marshal(env.Data)
	var parsed model.ParsedIntent
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if parsed.Operation != "swap" || parsed.Token != "WETH" || parsed.TokenOut != "DAI" {
		t.Fatalf("unexpected parse result: %+v", parsed)
	}
	if parsed.Command != "swap 0.5 weth for dai" {
		t.Fatalf("unexpected canonical command: %s", parsed.Command)
	}
}

func TestParseCommandErrorCodes(t *testing.T) {
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"unknown operation", []string{"parse", "stake", "5", "eth"}, 21},
		{"unknown token", []string{"parse", "send", "5", "pepe", "0x00000000000000000000000000000000000000bb"}, 22},
		{"bad address", []string{"parse", "send", "5", "usdc", "bob"}, 23},
		{"malformed", []string{"parse", "send", "usdc"}, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, append(tc.args, "--json")...)
			if code != tc.code {
				t.Fatalf("exit code %d, want %d; stderr: %s", code, tc.code, stderr)
			}
			env := decodeEnvelope(t, stderr)
			if env.Success || env.Error == nil || env.Error.Code != tc.code {
				t.Fatalf("unexpected error envelope: %s", stderr)
			}
		})
	}
}

func TestTokensCommand(t *testing.T) {
	code, stdout, stderr := runCLI(t, "tokens", "--json")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	env := decodeEnvelope(t, stdout)
	data, _ := json.Marshal(env.Data)
	var tokens []model.TokenInfo
	if err := json.Unmarshal(data, &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("expected at least one token")
	}
	var sawNative bool
	for _, token := range tokens {
		if token.Symbol == "ETH" && token.Native {
			sawNative = true
		}
	}
	if !sawNative {
		t.Fatal("native ETH missing from token list")
	}
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if strings.TrimSpace(stdout) == "" {
		t.Fatal("version output empty")
	}
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	code, _, _ := runCLI(t, "definitely-not-a-command")
	if code != 2 {
		t.Fatalf("exit code %d, want usage exit code", code)
	}
}

func TestChatRejectsUnknownPersona(t *testing.T) {
	t.Setenv("INTENT_LLM_API_KEY", "test")
	code, _, _ := runCLI(t, "chat", "--persona", "poetry")
	if code != 2 {
		t.Fatalf("exit code %d, want usage exit code", code)
	}
}
