package util

import (
	"os"
)

type holdemEnvironment struct {
	ListenAddr string
	APIAddr    string
	LogLevel   string
}

// Env is a helper object for accessing environment variables.
// Environment values override the config file.
var Env = &holdemEnvironment{
	ListenAddr: "HOLDEM_LISTEN_ADDR",
	APIAddr:    "HOLDEM_API_ADDR",
	LogLevel:   "LOG_LEVEL",
}

// GetListenAddr returns the TCP listen address override, or empty when
// not set.
func (h *holdemEnvironment) GetListenAddr() string {
	return os.Getenv(h.ListenAddr)
}

// GetAPIAddr returns the REST API address override, or empty when not
// set.
func (h *holdemEnvironment) GetAPIAddr() string {
	return os.Getenv(h.APIAddr)
}

// GetLogLevel returns the log level, defaulting to info.
func (h *holdemEnvironment) GetLogLevel() string {
	level := os.Getenv(h.LogLevel)
	if level == "" {
		return "info"
	}
	return level
}
