package config

import (
	"log/slog"
	"net"
	"strconv"
)

type (
	NET struct {
		// Addr is the interface the listener is bound to.
		Addr string
		// Port is the TCP port the listener is bound to.
		Port uint16
		// ReadBufferSize is the maximal number of bytes a single request may occupy. Requests
		// that don't fit are parsed from what was read, which usually results in a bad request.
		ReadBufferSize int
	}

	Workers struct {
		// Count is the number of goroutines serving accepted connections. Connections are
		// queued without a limit if all the workers are busy.
		Count int
	}
)

// Config holds settings used across the server: the listening address, limitations and
// the logger.
//
// You should ALWAYS modify defaults (returned via Default()) and NEVER initialize the
// config manually.
type Config struct {
	NET     NET
	Workers Workers
	// Logger receives lifecycle, per-request and failure records.
	Logger *slog.Logger
}

// Default returns the default config.
func Default() *Config {
	return &Config{
		NET: NET{
			Addr:           "127.0.0.1",
			Port:           7878,
			ReadBufferSize: 1024,
		},
		Workers: Workers{
			Count: 5,
		},
		Logger: slog.Default(),
	}
}

// Address returns the host:port pair the listener must be bound to.
func (c *Config) Address() string {
	return net.JoinHostPort(c.NET.Addr, strconv.Itoa(int(c.NET.Port)))
}
