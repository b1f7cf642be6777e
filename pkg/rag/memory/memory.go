package memory

import (
	"log"
	"strings"
)

const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

// Entry is one caller-supplied history item with an explicit role tag.
// Accepted role labels: "user"/"human" and "assistant"/"ai".
type Entry struct {
	Role    string
	Content string
}

// Turn is one normalized message inside the conversation memory.
type Turn struct {
	Role    string
	Content string
}

// Memory is the request-scoped conversation record injected into
// prompts. It is built fresh per request and never shared across
// requests; persistence of chat history lives outside the core.
// Turns alternate human/assistant in original order; a trailing
// human turn without an assistant reply is permitted.
type Memory struct {
	turns []Turn
}

// FromStrings builds memory from the legacy flat history shape:
// alternating human/assistant messages. Odd-length histories leave the
// final human turn unanswered.
func FromStrings(history []string) *Memory {
	m := &Memory{turns: make([]Turn, 0, len(history))}
	for i := 0; i < len(history); i += 2 {
		m.turns = append(m.turns, Turn{Role: RoleHuman, Content: history[i]})
		if i+1 < len(history) {
			m.turns = append(m.turns, Turn{Role: RoleAssistant, Content: history[i+1]})
		}
	}
	return m
}

// FromEntries builds memory from role-tagged history entries. Entries
// with an unrecognized role are logged and dropped so the memory stays
// strictly human/assistant.
func FromEntries(entries []Entry, logger *log.Logger) *Memory {
	m := &Memory{turns: make([]Turn, 0, len(entries))}
	for _, e := range entries {
		switch strings.ToLower(e.Role) {
		case "user", RoleHuman:
			m.turns = append(m.turns, Turn{Role: RoleHuman, Content: e.Content})
		case "ai", RoleAssistant:
			m.turns = append(m.turns, Turn{Role: RoleAssistant, Content: e.Content})
		default:
			if logger != nil {
				logger.Printf("[MEMORY] Dropping history entry with unknown role %q", e.Role)
			}
		}
	}
	return m
}

func (m *Memory) Turns() []Turn {
	return m.turns
}

func (m *Memory) Len() int {
	return len(m.turns)
}

// CompletePairs counts human turns that received an assistant reply.
func (m *Memory) CompletePairs() int {
	pairs := 0
	for i := 0; i+1 < len(m.turns); i++ {
		if m.turns[i].Role == RoleHuman && m.turns[i+1].Role == RoleAssistant {
			pairs++
		}
	}
	return pairs
}

// HasUnansweredHuman reports whether the memory ends on a human turn.
func (m *Memory) HasUnansweredHuman() bool {
	return len(m.turns) > 0 && m.turns[len(m.turns)-1].Role == RoleHuman
}

// Format renders the memory for the {chat_history} prompt slot.
func (m *Memory) Format() string {
	if len(m.turns) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range m.turns {
		if t.Role == RoleHuman {
			b.WriteString("Human: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
