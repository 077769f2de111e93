// Package config provides configuration helpers for the agent commands.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Defaults for the agent runtime.
const (
	DefaultPort    = "8080"
	DefaultDataDir = "shared-data"
	DefaultPersona = "tutor"
)

// LoadEnv loads .env.local if present. Missing files are fine; real
// environment variables always win over file values.
func LoadEnv() {
	_ = godotenv.Load(".env.local")
}

// Port returns the listen port from AGENT_PORT or the default.
func Port() string {
	if p := os.Getenv("AGENT_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// DataDir returns the directory holding content seeds and record
// collections, from AGENT_DATA_DIR or the default.
func DataDir() string {
	if d := os.Getenv("AGENT_DATA_DIR"); d != "" {
		return d
	}
	return DefaultDataDir
}

// Persona returns the persona name from AGENT_PERSONA or the default.
func Persona() string {
	if p := os.Getenv("AGENT_PERSONA"); p != "" {
		return p
	}
	return DefaultPersona
}

// LogLevel returns the log level from AGENT_LOG_LEVEL, defaulting to info.
func LogLevel() string {
	if l := os.Getenv("AGENT_LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}
