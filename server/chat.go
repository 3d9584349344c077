package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hrygo/bookingsense/calendar"
	"github.com/hrygo/bookingsense/plugin/ai/agent"
	"github.com/hrygo/bookingsense/store"
)

type ChatRequest struct {
	// SessionID continues an existing conversation. Empty starts a new one.
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Server) chatHandler(c echo.Context) error {
	if s.llm == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "assistant is not configured; set an AI API key")
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	assistant, err := agent.NewBookingAssistant(s.llm, s.calendar, s.policies, s.memory, req.SessionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	reply, err := assistant.Reply(c.Request().Context(), req.Message)
	if err != nil {
		slog.Error("chat turn failed", "session", req.SessionID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "assistant failed to answer")
	}

	s.persistTurn(c.Request().Context(), req.SessionID, req.Message, reply)

	return c.JSON(http.StatusOK, ChatResponse{SessionID: req.SessionID, Reply: reply})
}

// persistTurn records the exchange in the conversation transcript. Failures
// are logged, not surfaced: the user already has their answer.
func (s *Server) persistTurn(ctx context.Context, sessionID, message, reply string) {
	if s.Store == nil {
		return
	}

	conversation, err := s.Store.FindConversation(ctx, sessionID)
	if err == nil && conversation == nil {
		conversation, err = s.Store.CreateConversation(ctx, &store.Conversation{UID: sessionID})
	}
	if err != nil {
		slog.Warn("failed to resolve conversation", "session", sessionID, "error", err)
		return
	}

	for _, msg := range []store.ConversationMessage{
		{ConversationID: conversation.ID, Role: "user", Content: message},
		{ConversationID: conversation.ID, Role: "assistant", Content: reply},
	} {
		if _, err := s.Store.CreateConversationMessage(ctx, &msg); err != nil {
			slog.Warn("failed to persist message", "session", sessionID, "error", err)
			return
		}
	}
}

func (s *Server) calendarHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.calendar.Export())
}

func (s *Server) dayScheduleHandler(c echo.Context) error {
	date := c.Param("date")
	slots, err := s.calendar.SlotsForDate(date)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}

// reloadCalendarHandler re-reads the calendar snapshot file and replaces the
// calendar wholesale. Bookings made since the last load are discarded.
func (s *Server) reloadCalendarHandler(c echo.Context) error {
	data, err := os.ReadFile(s.Profile.CalendarPath)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read calendar file")
	}
	var snapshot calendar.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "calendar file is not valid JSON")
	}
	if err := s.calendar.Reset(snapshot); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	slog.Info("calendar reloaded", "path", s.Profile.CalendarPath, "dates", len(snapshot))
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) healthzHandler(c echo.Context) error {
	return c.String(http.StatusOK, "Service ready.")
}
