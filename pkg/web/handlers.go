package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/internal/log"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/agent"
)

// AgentFrame is one outbound WebSocket message.
type AgentFrame struct {
	Type    string `json:"type"` // agent, session
	Session string `json:"session,omitempty"`
	Text    string `json:"text,omitempty"`
	Voice   string `json:"voice,omitempty"`
}

// handleHealth reports liveness and the active persona.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"persona": s.persona,
	})
}

// handleListRecords returns the stored records of one kind.
func (s *Server) handleListRecords(c *fiber.Ctx) error {
	if s.records == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "record inspection not enabled",
		})
	}

	kind := c.Params("kind")
	if !s.records.Has(kind) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown record kind " + kind,
		})
	}
	return c.JSON(s.records.List(kind))
}

// handleGetTranscript returns recent conversation lines across sessions.
func (s *Server) handleGetTranscript(c *fiber.Ctx) error {
	s.transcriptMu.RLock()
	defer s.transcriptMu.RUnlock()
	return c.JSON(s.transcript)
}

// handleSessionWS runs one conversation over one connection. Inbound
// text frames are user utterances; each agent reply goes out as its own
// JSON frame.
func (s *Server) handleSessionWS(c *websocket.Conn) {
	id := newSessionID()
	defer c.Close()

	log.Session(id).Info("websocket session opened", "remote", c.RemoteAddr().String())
	defer log.Session(id).Info("websocket session closed")

	if err := c.WriteJSON(AgentFrame{Type: "session", Session: id}); err != nil {
		return
	}

	if !s.sendReplies(c, id, s.runtime.StartSession(id)) {
		return
	}

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}
		utterance := string(msg)
		s.addTranscript(id, "user", utterance)

		if !s.sendReplies(c, id, s.runtime.HandleUtterance(id, utterance)) {
			return
		}
		if s.runtime.Ended(id) {
			return
		}
	}
}

func (s *Server) sendReplies(c *websocket.Conn, id string, replies []agent.Reply) bool {
	for _, r := range replies {
		s.addTranscript(id, "agent", r.Text)
		frame := AgentFrame{Type: "agent", Text: r.Text, Voice: r.Voice}
		if err := c.WriteJSON(frame); err != nil {
			log.Session(id).Warn("write failed", "error", err)
			return false
		}
	}
	return true
}
