package agent

import (
	"context"
	"fmt"

	"github.com/hrygo/bookingsense/calendar"
	"github.com/hrygo/bookingsense/plugin/ai"
	"github.com/hrygo/bookingsense/plugin/ai/agent/tools"
	"github.com/hrygo/bookingsense/plugin/ai/memory"
)

const bookingSystemPrompt = `You are a booking assistant for appointments. You help the user find free
time slots and book appointments against the calendar.

Rules:
- Dates are YYYY-MM-DD and times are HH:MM. Use get_today_date to resolve
  relative dates like "tomorrow" before calling other tools.
- Check availability before booking, and book only after the user confirms.
- When no single slot fits the requested duration, offer the back-to-back
  combinations from find_slot_combinations and explain that each slot is
  booked separately.
- Answer policy questions from policy_lookup results only; do not invent
  policies.
- Be concise and concrete: name exact dates and times.`

// historyLimit bounds how much conversation history is replayed to the LLM.
const historyLimit = 10

// BookingAssistant binds one conversation session to a calendar: the agent,
// its tools, and the session's sliding-window memory.
type BookingAssistant struct {
	agent     *Agent
	memory    *memory.ShortTermMemory
	sessionID string
}

// NewBookingAssistant creates an assistant for one session. The policy
// searcher is optional; without it the policy_lookup tool is not offered.
func NewBookingAssistant(
	llm ai.LLMService,
	cal *calendar.Calendar,
	policies tools.PolicySearcher,
	mem *memory.ShortTermMemory,
	sessionID string,
) (*BookingAssistant, error) {
	if llm == nil {
		return nil, fmt.Errorf("LLM service is required")
	}
	if cal == nil {
		return nil, fmt.Errorf("calendar is required")
	}
	if mem == nil {
		return nil, fmt.Errorf("memory is required")
	}

	agentTools := []Tool{
		tools.NewTodayTool(),
		tools.NewScheduleTool(cal),
		tools.NewAvailabilityTool(cal),
		tools.NewSearchTool(cal),
		tools.NewBookTool(cal),
	}
	if policies != nil {
		agentTools = append(agentTools, tools.NewPolicyTool(policies))
	}

	return &BookingAssistant{
		agent: NewAgent(llm, AgentConfig{
			Name:          "booking",
			SystemPrompt:  bookingSystemPrompt,
			MaxIterations: 10,
		}, agentTools),
		memory:    mem,
		sessionID: sessionID,
	}, nil
}

// Reply runs one conversational turn: prior session history is replayed to
// the agent, and both the user input and the answer are recorded.
func (a *BookingAssistant) Reply(ctx context.Context, input string) (string, error) {
	return a.ReplyWithCallback(ctx, input, nil)
}

// ReplyWithCallback is Reply with agent event callbacks (tool use, results).
func (a *BookingAssistant) ReplyWithCallback(ctx context.Context, input string, callback Callback) (string, error) {
	history := a.history()

	answer, err := a.agent.RunWithHistory(ctx, input, history, callback)
	if err != nil {
		return "", err
	}

	a.memory.AddMessage(a.sessionID, memory.Message{Role: "user", Content: input})
	a.memory.AddMessage(a.sessionID, memory.Message{Role: "assistant", Content: answer})
	return answer, nil
}

// Reset forgets the session's conversation history.
func (a *BookingAssistant) Reset() {
	a.memory.ClearSession(a.sessionID)
}

func (a *BookingAssistant) history() []ai.Message {
	stored := a.memory.GetMessages(a.sessionID, historyLimit)
	history := make([]ai.Message, len(stored))
	for i, msg := range stored {
		history[i] = ai.Message{Role: msg.Role, Content: msg.Content}
	}
	return history
}
