package llm

import (
	"strings"

	"github.com/google/uuid"
)

// maxTurns caps how much history rides along with each request. Older turns
// fall off the front; the system prompt carries everything timeless.
const maxTurns = 10

type turn struct {
	role string
	text string
}

// Transcript is one chat session's rolling history. It is not safe for
// concurrent use; a session is single-threaded by construction.
type Transcript struct {
	SessionID string
	turns     []turn
}

func NewTranscript() *Transcript {
	return &Transcript{SessionID: uuid.NewString()}
}

func (t *Transcript) AddUser(text string) {
	t.add("User", text)
}

func (t *Transcript) AddAssistant(text string) {
	t.add("Assistant", text)
}

func (t *Transcript) add(role, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	t.turns = append(t.turns, turn{role: role, text: text})
	if len(t.turns) > maxTurns {
		t.turns = t.turns[len(t.turns)-maxTurns:]
	}
}

// Render flattens the history into the line format the prompts reference,
// one "Role: text" line per turn.
func (t *Transcript) Render() string {
	if len(t.turns) == 0 {
		return ""
	}
	var b strings.Builder
	for _, turn := range t.turns {
		b.WriteString(turn.role)
		b.WriteString(": ")
		b.WriteString(turn.text)
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Transcript) Len() int { return len(t.turns) }
