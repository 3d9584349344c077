// Package agent implements the framework-less tool-calling agent that drives
// the booking conversation. It uses native LLM tool calling.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hrygo/bookingsense/plugin/ai"
)

// Tool defines the interface for executable tools.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string
	// Description returns the tool description for the LLM.
	Description() string
	// Parameters returns the JSON Schema for the tool's input parameters.
	Parameters() map[string]interface{}
	// Run executes the tool with the given JSON input.
	Run(ctx context.Context, input string) (string, error)
}

// NativeTool implements Tool with direct function execution.
type NativeTool struct {
	name        string
	description string
	execute     func(ctx context.Context, input string) (string, error)
	params      map[string]interface{}
}

// NewNativeTool creates a new NativeTool.
func NewNativeTool(
	name string,
	description string,
	execute func(ctx context.Context, input string) (string, error),
	parameters map[string]interface{},
) Tool {
	return &NativeTool{
		name:        name,
		description: description,
		execute:     execute,
		params:      parameters,
	}
}

func (t *NativeTool) Name() string { return t.name }

func (t *NativeTool) Description() string { return t.description }

func (t *NativeTool) Parameters() map[string]interface{} { return t.params }

func (t *NativeTool) Run(ctx context.Context, input string) (string, error) {
	return t.execute(ctx, input)
}

// Agent is a lightweight, framework-less AI agent.
type Agent struct {
	llm     ai.LLMService
	config  AgentConfig
	tools   []Tool
	toolMap map[string]Tool
}

// AgentConfig holds configuration for creating a new Agent.
type AgentConfig struct {
	// Name identifies this agent.
	Name string

	// SystemPrompt is the base system prompt for the LLM.
	SystemPrompt string

	// MaxIterations is the maximum number of tool-calling loops.
	MaxIterations int
}

// NewAgent creates a new Agent with the given configuration.
func NewAgent(llm ai.LLMService, config AgentConfig, tools []Tool) *Agent {
	if config.MaxIterations <= 0 {
		config.MaxIterations = 10
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name()] = tool
	}

	return &Agent{
		llm:     llm,
		config:  config,
		tools:   tools,
		toolMap: toolMap,
	}
}

// Callback is called during agent execution for events.
type Callback func(event string, data string)

// Event constants for callbacks.
const (
	EventToolUse    = "tool_use"
	EventToolResult = "tool_result"
	EventAnswer     = "answer"
)

// Run executes the agent with the given input and no prior history.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	return a.RunWithHistory(ctx, input, nil, nil)
}

// RunWithHistory executes the agent with prior conversation history and
// optional callback support. The history is injected between the system
// prompt and the new user input.
func (a *Agent) RunWithHistory(ctx context.Context, input string, history []ai.Message, callback Callback) (string, error) {
	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.SystemPrompt(a.config.SystemPrompt))
	messages = append(messages, history...)
	messages = append(messages, ai.UserMessage(input))

	for iteration := 0; iteration < a.config.MaxIterations; iteration++ {
		resp, err := a.llm.ChatWithTools(ctx, messages, a.toolDescriptors())
		if err != nil {
			return "", fmt.Errorf("LLM call failed (iteration %d): %w", iteration+1, err)
		}

		// No tool calls means the model produced its final answer.
		if len(resp.ToolCalls) == 0 {
			if callback != nil && resp.Content != "" {
				callback(EventAnswer, resp.Content)
			}
			return resp.Content, nil
		}

		// Record the assistant turn, tool calls rendered as text.
		assistantText := resp.Content
		for _, tc := range resp.ToolCalls {
			assistantText += fmt.Sprintf("\n[Tool: %s(%s)]", tc.Function.Name, tc.Function.Arguments)
		}
		messages = append(messages, ai.AssistantMessage(assistantText))

		// Execute each tool and feed results back into the conversation.
		for _, tc := range resp.ToolCalls {
			toolName := tc.Function.Name
			toolInput := tc.Function.Arguments

			if callback != nil {
				callback(EventToolUse, fmt.Sprintf("%s:%s", toolName, toolInput))
			}

			toolResult, err := a.executeTool(ctx, toolName, toolInput)
			if err != nil {
				toolResult = fmt.Sprintf("Error: %v", err)
			}

			if callback != nil {
				callback(EventToolResult, toolResult)
			}

			messages = append(messages, ai.UserMessage(
				fmt.Sprintf("[Result from %s]: %s", toolName, toolResult)))
		}
	}

	return "", fmt.Errorf("max iterations (%d) exceeded", a.config.MaxIterations)
}

// toolDescriptors converts the agent's tools to ai.ToolDescriptor format.
func (a *Agent) toolDescriptors() []ai.ToolDescriptor {
	descriptors := make([]ai.ToolDescriptor, len(a.tools))
	for i, tool := range a.tools {
		paramsJSON, err := json.Marshal(tool.Parameters())
		if err != nil {
			slog.Warn("failed to marshal tool parameters, using empty schema",
				"tool", tool.Name(),
				"error", err)
			paramsJSON = []byte(`{"type":"object","properties":{}}`)
		}
		descriptors[i] = ai.ToolDescriptor{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  string(paramsJSON),
		}
	}
	return descriptors
}

// executeTool finds and executes a tool by name.
func (a *Agent) executeTool(ctx context.Context, name, input string) (string, error) {
	tool, exists := a.toolMap[name]
	if !exists {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return tool.Run(ctx, input)
}
