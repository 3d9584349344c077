package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/bookingsense/plugin/ai"
)

// MockLLM implements ai.LLMService for testing.
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) ChatWithTools(ctx context.Context, messages []ai.Message, tools []ai.ToolDescriptor) (*ai.ChatResponse, error) {
	args := m.Called(ctx, messages, tools)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.ChatResponse), args.Error(1)
}

func toolCallResponse(toolName, arguments string) *ai.ChatResponse {
	return &ai.ChatResponse{
		ToolCalls: []ai.ToolCall{
			{
				ID:   "call_1",
				Type: "function",
				Function: ai.FunctionCall{
					Name:      toolName,
					Arguments: arguments,
				},
			},
		},
	}
}

func echoTool(name string) Tool {
	return NewNativeTool(name, "echoes its input",
		func(ctx context.Context, input string) (string, error) {
			return "echo:" + input, nil
		},
		map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		})
}

func TestAgentDirectAnswer(t *testing.T) {
	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.ChatResponse{Content: "final answer"}, nil).Once()

	a := NewAgent(llm, AgentConfig{Name: "test", SystemPrompt: "sys"}, []Tool{echoTool("echo")})

	answer, err := a.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "final answer", answer)
	llm.AssertExpectations(t)
}

func TestAgentExecutesToolThenAnswers(t *testing.T) {
	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(toolCallResponse("echo", `{"x":1}`), nil).Once()
	llm.On("ChatWithTools", mock.Anything, mock.MatchedBy(func(messages []ai.Message) bool {
		last := messages[len(messages)-1]
		return last.Role == "user" && last.Content == `[Result from echo]: echo:{"x":1}`
	}), mock.Anything).
		Return(&ai.ChatResponse{Content: "done"}, nil).Once()

	a := NewAgent(llm, AgentConfig{Name: "test", SystemPrompt: "sys"}, []Tool{echoTool("echo")})

	var events []string
	answer, err := a.RunWithHistory(context.Background(), "go", nil, func(event, data string) {
		events = append(events, event)
	})
	require.NoError(t, err)
	assert.Equal(t, "done", answer)
	assert.Equal(t, []string{EventToolUse, EventToolResult, EventAnswer}, events)
	llm.AssertExpectations(t)
}

func TestAgentUnknownToolFeedsErrorBack(t *testing.T) {
	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(toolCallResponse("missing", `{}`), nil).Once()
	llm.On("ChatWithTools", mock.Anything, mock.MatchedBy(func(messages []ai.Message) bool {
		last := messages[len(messages)-1]
		return last.Content == "[Result from missing]: Error: unknown tool: missing"
	}), mock.Anything).
		Return(&ai.ChatResponse{Content: "recovered"}, nil).Once()

	a := NewAgent(llm, AgentConfig{Name: "test", SystemPrompt: "sys"}, []Tool{echoTool("echo")})

	answer, err := a.Run(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
}

func TestAgentMaxIterations(t *testing.T) {
	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(toolCallResponse("echo", `{}`), nil)

	a := NewAgent(llm, AgentConfig{Name: "test", SystemPrompt: "sys", MaxIterations: 3}, []Tool{echoTool("echo")})

	_, err := a.Run(context.Background(), "loop forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max iterations")
}

func TestAgentLLMFailure(t *testing.T) {
	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("backend down"))

	a := NewAgent(llm, AgentConfig{Name: "test", SystemPrompt: "sys"}, nil)

	_, err := a.Run(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestAgentHistoryIsReplayed(t *testing.T) {
	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.MatchedBy(func(messages []ai.Message) bool {
		// system + 2 history + new input
		return len(messages) == 4 &&
			messages[1].Content == "older question" &&
			messages[2].Content == "older answer"
	}), mock.Anything).
		Return(&ai.ChatResponse{Content: "ok"}, nil).Once()

	a := NewAgent(llm, AgentConfig{Name: "test", SystemPrompt: "sys"}, nil)

	history := []ai.Message{
		ai.UserMessage("older question"),
		ai.AssistantMessage("older answer"),
	}
	answer, err := a.RunWithHistory(context.Background(), "new input", history, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	llm.AssertExpectations(t)
}

func TestToolDescriptorsCarrySchemas(t *testing.T) {
	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.MatchedBy(func(tools []ai.ToolDescriptor) bool {
		return len(tools) == 1 && tools[0].Name == "echo" &&
			tools[0].Parameters == `{"properties":{},"type":"object"}`
	})).
		Return(&ai.ChatResponse{Content: "ok"}, nil).Once()

	a := NewAgent(llm, AgentConfig{Name: "test", SystemPrompt: "sys"}, []Tool{echoTool("echo")})

	_, err := a.Run(context.Background(), "input")
	require.NoError(t, err)
	llm.AssertExpectations(t)
}
