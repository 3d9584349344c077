package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/bookingsense/calendar"
	"github.com/hrygo/bookingsense/plugin/ai"
	"github.com/hrygo/bookingsense/plugin/ai/memory"
)

func testCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.Load(calendar.Snapshot{
		"2024-01-10": {
			{Start: "09:00", End: "09:30", Available: true},
			{Start: "09:30", End: "10:00", Available: true},
		},
	})
	require.NoError(t, err)
	return cal
}

func TestNewBookingAssistantValidation(t *testing.T) {
	mem := memory.NewShortTermMemory(10)
	defer mem.Close()
	cal := testCalendar(t)

	_, err := NewBookingAssistant(nil, cal, nil, mem, "s1")
	assert.Error(t, err)

	_, err = NewBookingAssistant(&MockLLM{}, nil, nil, mem, "s1")
	assert.Error(t, err)

	_, err = NewBookingAssistant(&MockLLM{}, cal, nil, nil, "s1")
	assert.Error(t, err)

	a, err := NewBookingAssistant(&MockLLM{}, cal, nil, mem, "s1")
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestBookingAssistantOffersCalendarTools(t *testing.T) {
	mem := memory.NewShortTermMemory(10)
	defer mem.Close()

	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.MatchedBy(func(tools []ai.ToolDescriptor) bool {
		names := map[string]bool{}
		for _, tool := range tools {
			names[tool.Name] = true
		}
		return names["get_today_date"] && names["get_day_schedule"] &&
			names["check_availability"] && names["find_slot_combinations"] &&
			names["book_appointment"] && !names["policy_lookup"]
	})).
		Return(&ai.ChatResponse{Content: "hi"}, nil).Once()

	a, err := NewBookingAssistant(llm, testCalendar(t), nil, mem, "s1")
	require.NoError(t, err)

	answer, err := a.Reply(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", answer)
	llm.AssertExpectations(t)
}

func TestBookingAssistantRecordsHistory(t *testing.T) {
	mem := memory.NewShortTermMemory(10)
	defer mem.Close()

	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.ChatResponse{Content: "first answer"}, nil).Once()
	// The second turn must replay the first exchange.
	llm.On("ChatWithTools", mock.Anything, mock.MatchedBy(func(messages []ai.Message) bool {
		return len(messages) == 4 &&
			messages[1].Content == "first question" &&
			messages[2].Content == "first answer"
	}), mock.Anything).
		Return(&ai.ChatResponse{Content: "second answer"}, nil).Once()

	a, err := NewBookingAssistant(llm, testCalendar(t), nil, mem, "s1")
	require.NoError(t, err)

	_, err = a.Reply(context.Background(), "first question")
	require.NoError(t, err)
	_, err = a.Reply(context.Background(), "second question")
	require.NoError(t, err)
	llm.AssertExpectations(t)
}

func TestBookingAssistantFailedTurnLeavesNoHistory(t *testing.T) {
	mem := memory.NewShortTermMemory(10)
	defer mem.Close()

	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	a, err := NewBookingAssistant(llm, testCalendar(t), nil, mem, "s1")
	require.NoError(t, err)

	_, err = a.Reply(context.Background(), "hello")
	require.Error(t, err)
	assert.Empty(t, mem.GetMessages("s1", 0))
}

func TestBookingAssistantReset(t *testing.T) {
	mem := memory.NewShortTermMemory(10)
	defer mem.Close()

	llm := &MockLLM{}
	llm.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.ChatResponse{Content: "ok"}, nil)

	a, err := NewBookingAssistant(llm, testCalendar(t), nil, mem, "s1")
	require.NoError(t, err)

	_, err = a.Reply(context.Background(), "hello")
	require.NoError(t, err)
	require.NotEmpty(t, mem.GetMessages("s1", 0))

	a.Reset()
	assert.Empty(t, mem.GetMessages("s1", 0))
}
