package internal

import "github.com/starford/ansuz/internal/librarian"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	gateway librarian.Gateway
	mcpMode bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithGateway overrides the AI gateway. Used in tests to avoid real
// Gemini calls.
func WithGateway(g librarian.Gateway) Option {
	return func(a *application) {
		a.gateway = g
	}
}

// WithMCPMode runs the MCP stdio server instead of the HTTP server.
func WithMCPMode(enabled bool) Option {
	return func(a *application) {
		a.mcpMode = enabled
	}
}
