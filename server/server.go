// Package server exposes the booking assistant over HTTP: a chat endpoint
// backed by the tool-calling agent, calendar inspection, and health checks.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/bookingsense/calendar"
	"github.com/hrygo/bookingsense/internal/profile"
	"github.com/hrygo/bookingsense/plugin/ai"
	"github.com/hrygo/bookingsense/plugin/ai/agent/tools"
	"github.com/hrygo/bookingsense/plugin/ai/memory"
	"github.com/hrygo/bookingsense/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	calendar   *calendar.Calendar
	memory     *memory.ShortTermMemory
	llm        ai.LLMService
	policies   tools.PolicySearcher
}

// NewServer assembles the HTTP server. The LLM service and policy searcher
// may be nil; the chat endpoint then reports the assistant as unavailable
// while calendar endpoints keep working.
func NewServer(profile *profile.Profile, st *store.Store, llm ai.LLMService, policies tools.PolicySearcher) (*Server, error) {
	cal, err := loadCalendar(profile)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		Profile:    profile,
		Store:      st,
		echoServer: e,
		calendar:   cal,
		memory:     memory.NewShortTermMemory(0),
		llm:        llm,
		policies:   policies,
	}
	s.registerRoutes()
	return s, nil
}

func loadCalendar(profile *profile.Profile) (*calendar.Calendar, error) {
	data, err := os.ReadFile(profile.CalendarPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read calendar file %s", profile.CalendarPath)
	}
	cal, err := calendar.FromJSON(data, calendar.WithSearchFloor(profile.SearchFloorMinutes))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load calendar from %s", profile.CalendarPath)
	}
	return cal, nil
}

func (s *Server) registerRoutes() {
	s.echoServer.GET("/healthz", s.healthzHandler)

	apiV1 := s.echoServer.Group("/api/v1")
	apiV1.POST("/chat", s.chatHandler)
	apiV1.GET("/calendar", s.calendarHandler)
	apiV1.GET("/calendar/:date", s.dayScheduleHandler)
	apiV1.POST("/calendar/reload", s.reloadCalendarHandler)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", addr, "ai_enabled", s.llm != nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echoServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown drains in-flight requests and releases resources.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	s.memory.Close()
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}
	slog.Info("server stopped")
	return nil
}
