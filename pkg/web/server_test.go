package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/agent"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/persona"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	p, ok := persona.Get("tutor")
	if !ok {
		t.Fatal("tutor persona not registered")
	}
	eng, reg, err := p.Bootstrap(t.TempDir())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	rt := agent.NewRuntime(eng)
	return NewServer("0", "tutor", rt, reg)
}

func TestHealthz(t *testing.T) {
	s := testServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"persona":"tutor"`) {
		t.Errorf("body = %s", body)
	}
}

func TestListRecordsUnknownKind(t *testing.T) {
	s := testServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/records/nope", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTranscriptBuffer(t *testing.T) {
	s := testServer(t)
	s.addTranscript("s1", "user", "hello")
	s.addTranscript("s1", "agent", "hi there")

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/transcript", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var entries []TranscriptEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Role != "user" || entries[1].Message != "hi there" {
		t.Errorf("unexpected transcript: %+v", entries)
	}
}
