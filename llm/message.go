package llm

import (
	"github.com/ollama/ollama/api"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a transcript.
type Message struct {
	Role  Role
	Parts []Part
}

// Part is one of TextPart, ToolCallPart or ToolResultPart.
type Part interface {
	isPart()
}

type TextPart struct {
	Text string
}

// ToolCallPart is a model request to run a tool. ID correlates the call with
// its result for providers that need it.
type ToolCallPart struct {
	ID        string
	Name      string
	Arguments api.ToolCallFunctionArguments
}

type ToolResultPart struct {
	ID     string
	Name   string
	Result any
}

func (TextPart) isPart()       {}
func (ToolCallPart) isPart()   {}
func (ToolResultPart) isPart() {}

// Response is what a model returns for one request: TextResponse or ToolCallResponse.
type Response interface {
	isResponse()
}

type TextResponse struct {
	Text string
}

type ToolCallResponse struct {
	Call ToolCallPart
}

func (TextResponse) isResponse()     {}
func (ToolCallResponse) isResponse() {}

func NewUserText(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{TextPart{Text: text}}}
}

func NewModelText(text string) Message {
	return Message{Role: RoleModel, Parts: []Part{TextPart{Text: text}}}
}

// NewToolCall wraps a model tool call as a model turn.
func NewToolCall(call ToolCallPart) Message {
	return Message{Role: RoleModel, Parts: []Part{call}}
}

// NewToolResult wraps a tool result as the synthetic user turn that answers a call.
func NewToolResult(call ToolCallPart, result any) Message {
	return Message{Role: RoleUser, Parts: []Part{ToolResultPart{ID: call.ID, Name: call.Name, Result: result}}}
}

// TextOf concatenates the text parts of a message.
func TextOf(m Message) string {
	var s string
	for _, p := range m.Parts {
		if t, ok := p.(TextPart); ok {
			s += t.Text
		}
	}
	return s
}
