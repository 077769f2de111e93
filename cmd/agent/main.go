// Voice agent backend: a turn-based dialogue server that runs one of
// several personas over WebSocket.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/internal/config"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/internal/log"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/agent"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/persona"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/web"
)

func main() {
	config.LoadEnv()

	personaName := flag.String("persona", config.Persona(), "persona to run: "+strings.Join(persona.Names(), ", "))
	port := flag.String("port", config.Port(), "HTTP listen port")
	dataDir := flag.String("data", config.DataDir(), "directory for content and record files")
	logLevel := flag.String("log-level", config.LogLevel(), "log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	p, ok := persona.Get(*personaName)
	if !ok {
		fmt.Printf("❌ Unknown persona %q (have: %s)\n", *personaName, strings.Join(persona.Names(), ", "))
		os.Exit(1)
	}

	engine, registry, err := p.Bootstrap(*dataDir)
	if err != nil {
		fmt.Printf("❌ Bootstrap failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("🤖 Persona: %s\n", p.Name)
	fmt.Printf("📁 Data dir: %s\n", *dataDir)

	server := web.NewServer(*port, p.Name, agent.NewRuntime(engine), registry)
	server.StartAsync()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	fmt.Println("\n👋 Shutting down")
	if err := server.Shutdown(); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
