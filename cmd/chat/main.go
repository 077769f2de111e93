// Terminal client for the voice agent. Connects to the agent's
// WebSocket endpoint and runs a line-based conversation.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
)

type agentFrame struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	Text    string `json:"text,omitempty"`
	Voice   string `json:"voice,omitempty"`
}

func main() {
	addr := flag.String("addr", "localhost:8080", "agent host:port")
	flag.Parse()

	url := "ws://" + *addr + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Printf("❌ Connect failed (%s): %v\n", url, err)
		os.Exit(1)
	}
	defer conn.Close()

	done := make(chan struct{})
	go readLoop(conn, done)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	quit := make(chan struct{})
	defer close(quit)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-stop:
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "" {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				fmt.Printf("❌ Send failed: %v\n", err)
				return
			}
		}
	}
}

// readLoop prints agent frames until the server closes the connection.
func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame agentFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			fmt.Printf("agent: %s\n", msg)
			continue
		}
		switch frame.Type {
		case "session":
			fmt.Printf("🔗 Session %s\n", frame.Session)
		case "agent":
			if frame.Voice != "" {
				fmt.Printf("🗣  [%s] %s\n", frame.Voice, frame.Text)
			} else {
				fmt.Printf("🗣  %s\n", frame.Text)
			}
		}
	}
}
