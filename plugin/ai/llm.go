// Package ai provides the LLM and embedding services behind the booking
// assistant.
package ai

import "context"

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// ToolDescriptor describes a callable tool to the LLM. Parameters is the
// JSON Schema of the tool's input, serialized as a JSON string.
type ToolDescriptor struct {
	Name        string
	Description string
	Parameters  string
}

// FunctionCall is the function invocation requested by the LLM.
type FunctionCall struct {
	Name      string
	Arguments string
}

// ToolCall is a single tool invocation within a chat response.
type ToolCall struct {
	ID       string
	Type     string
	Function FunctionCall
}

// ChatResponse is the result of a tool-capable chat turn. When ToolCalls is
// empty, Content is the model's final answer.
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// LLMService is the LLM service interface.
type LLMService interface {
	// Chat performs synchronous chat.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatWithTools performs a chat turn with native tool calling.
	ChatWithTools(ctx context.Context, messages []Message, tools []ToolDescriptor) (*ChatResponse, error)
}

// EmbeddingService generates embedding vectors for text.
type EmbeddingService interface {
	Embedding(ctx context.Context, text string) ([]float32, error)
}

// Helper for creating system prompts.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// Helper for creating user messages.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// Helper for creating assistant messages.
func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}
