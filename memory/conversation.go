package memory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nwbvt/congressbot/llm"
)

// Conversation is the transcript of one interactive session. It is owned by
// the session loop and never persisted.
type Conversation struct {
	ID       string
	Messages []llm.Message
}

func NewConversation() *Conversation {
	return &Conversation{ID: uuid.New().String()}
}

func (m *Conversation) AddUserMessage(content string) {
	m.Messages = append(m.Messages, llm.NewUserText(content))
}

func (m *Conversation) AddModelMessage(content string) {
	m.Messages = append(m.Messages, llm.NewModelText(content))
}

// AddToolExchange appends a tool call and its result as two adjacent turns,
// so a call is never left without its answer.
func (m *Conversation) AddToolExchange(call llm.ToolCallPart, result any) {
	m.Messages = append(m.Messages, llm.NewToolCall(call), llm.NewToolResult(call, result))
}

func (m *Conversation) Len() int {
	return len(m.Messages)
}

// Truncate drops every message after the first n. Used to roll back a failed turn.
func (m *Conversation) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(m.Messages) {
		clear(m.Messages[n:])
		m.Messages = m.Messages[:n]
	}
}

// Validate checks that every tool call is answered by exactly one result
// with the same name before any other call or text turn.
func (m *Conversation) Validate() error {
	var pending *llm.ToolCallPart
	for i, msg := range m.Messages {
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case llm.ToolCallPart:
				if pending != nil {
					return fmt.Errorf("message %d: tool call %q issued before %q was answered", i, p.Name, pending.Name)
				}
				call := p
				pending = &call
			case llm.ToolResultPart:
				if pending == nil || pending.Name != p.Name || pending.ID != p.ID {
					return fmt.Errorf("message %d: result for %q has no matching call", i, p.Name)
				}
				pending = nil
			case llm.TextPart:
				if pending != nil {
					return fmt.Errorf("message %d: text before result of %q", i, pending.Name)
				}
			}
		}
	}
	if pending != nil {
		return fmt.Errorf("tool call %q has no result", pending.Name)
	}
	return nil
}
