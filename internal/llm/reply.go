// Package llm turns free-text user input into DSL command strings through an
// OpenAI-compatible chat completions endpoint. The model's reply is untrusted
// input: everything it produces goes through the same parser and registry as
// a hand-typed command, so a hallucinated token or address fails there.
package llm

import (
	"encoding/json"
	"strings"
)

// Kind distinguishes an executable command reply from a conversational one.
type Kind string

const (
	KindCommand Kind = "command"
	KindMessage Kind = "message"
)

// Reply is the decoded model output: either a DSL command to hand to the
// parser, or a message to show the user verbatim.
type Reply struct {
	Kind    Kind
	Command string
	Message string
}

// DecodeReply extracts the structured reply from raw model output. Models
// wrap JSON in markdown fences or prose often enough that decoding scans for
// the outermost object instead of requiring clean JSON. Output that carries
// no usable object at all is degraded to a plain message rather than an
// error, so the chat loop never dead-ends on a chatty model.
func DecodeReply(content string) Reply {
	content = strings.TrimSpace(content)

	var parsed struct {
		Command string `json:"command"`
		Message string `json:"message"`
	}
	candidate := extractObject(content)
	if candidate == "" || json.Unmarshal([]byte(candidate), &parsed) != nil {
		return Reply{Kind: KindMessage, Message: content}
	}
	if cmd := strings.TrimSpace(parsed.Command); cmd != "" {
		return Reply{Kind: KindCommand, Command: cmd}
	}
	if msg := strings.TrimSpace(parsed.Message); msg != "" {
		return Reply{Kind: KindMessage, Message: msg}
	}
	return Reply{Kind: KindMessage, Message: content}
}

// extractObject returns the first balanced top-level JSON object in text, or
// "" when there is none. Brace counting ignores braces inside strings.
func extractObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
