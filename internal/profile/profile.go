// Package profile holds the runtime configuration of the booking assistant.
package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the assistant.
type Profile struct {
	// Mode can be "prod" or "dev".
	Mode string
	// Addr is the binding address for the HTTP server.
	Addr string
	// Port is the binding port for the HTTP server.
	Port int
	// Data is the data directory.
	Data string
	// Driver is the database driver (sqlite or postgres).
	Driver string
	// DSN points to where the assistant stores policy and conversation data.
	DSN string
	// Version is the current version of the server.
	Version string

	// CalendarPath is the JSON calendar snapshot loaded per session.
	CalendarPath string
	// SearchFloorMinutes is the minimum duration threshold for the
	// multi-slot availability search.
	SearchFloorMinutes int

	// AI configuration.
	AIBaseURL        string // BOOKINGSENSE_AI_BASE_URL
	AIAPIKey         string // BOOKINGSENSE_AI_API_KEY
	AIChatModel      string // BOOKINGSENSE_AI_CHAT_MODEL
	AIEmbeddingModel string // BOOKINGSENSE_AI_EMBEDDING_MODEL
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled reports whether an LLM backend is configured. Without one the
// server still serves calendar reads but refuses chat sessions.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// Validate normalizes the profile and fills derived defaults.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := filepath.Abs(p.Data)
	if err != nil {
		return errors.Wrapf(err, "unable to resolve data directory %q", p.Data)
	}
	if _, err := os.Stat(dataDir); err != nil {
		return errors.Wrapf(err, "unable to access data directory %q", dataDir)
	}
	p.Data = dataDir

	switch p.Driver {
	case "", "sqlite":
		p.Driver = "sqlite"
		if p.DSN == "" {
			p.DSN = filepath.Join(dataDir, fmt.Sprintf("bookingsense_%s.db", p.Mode))
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("postgres driver requires a DSN")
		}
	default:
		return errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}

	if p.CalendarPath == "" {
		p.CalendarPath = filepath.Join(dataDir, "calendar.json")
	}
	if p.SearchFloorMinutes <= 0 {
		p.SearchFloorMinutes = 30
	}
	if p.AIChatModel == "" {
		p.AIChatModel = "gpt-4o-mini"
	}
	if p.AIEmbeddingModel == "" {
		p.AIEmbeddingModel = "text-embedding-3-small"
	}
	return nil
}
