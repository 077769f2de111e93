// Package web exposes the dialogue runtime over HTTP and WebSocket.
// One WebSocket connection is one conversation session.
package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/agent"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

// TranscriptEntry is one line of a session's conversation, kept for the
// inspection API.
type TranscriptEntry struct {
	Time    string `json:"time"`
	Session string `json:"session"`
	Role    string `json:"role"` // user, agent
	Message string `json:"message"`
}

// Server hosts the agent runtime for WebSocket clients.
type Server struct {
	app     *fiber.App
	port    string
	persona string

	runtime *agent.Runtime
	records *store.Registry

	// Transcript buffer (last 500 entries)
	transcript   []TranscriptEntry
	transcriptMu sync.RWMutex
}

// NewServer wires routes around a ready runtime. The registry may be nil
// when record inspection is not wanted.
func NewServer(port, persona string, rt *agent.Runtime, reg *store.Registry) *Server {
	s := &Server{
		port:       port,
		persona:    persona,
		runtime:    rt,
		records:    reg,
		transcript: make([]TranscriptEntry, 0, 500),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Voice Agent",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/healthz", s.handleHealth)

	api := app.Group("/api")
	api.Get("/records/:kind", s.handleListRecords)
	api.Get("/transcript", s.handleGetTranscript)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(s.handleSessionWS))

	s.app = app
	return s
}

// Start starts the server and blocks.
func (s *Server) Start() error {
	fmt.Printf("🌐 Agent listening: ws://localhost:%s/ws\n", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			fmt.Printf("⚠️  Web server error: %v\n", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) addTranscript(session, role, message string) {
	entry := TranscriptEntry{
		Time:    time.Now().Format("15:04:05"),
		Session: session,
		Role:    role,
		Message: message,
	}

	s.transcriptMu.Lock()
	s.transcript = append(s.transcript, entry)
	if len(s.transcript) > 500 {
		s.transcript = s.transcript[1:]
	}
	s.transcriptMu.Unlock()
}

func newSessionID() string {
	return uuid.New().String()
}
