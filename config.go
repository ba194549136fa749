package lmsflow

import "time"

// Config holds the configuration for a Forwarder instance.
type Config struct {
	// ConnectTimeout bounds TCP connection establishment per delivery.
	ConnectTimeout time.Duration

	// RequestTimeout bounds the whole HTTP exchange per delivery,
	// connection time included.
	RequestTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 5 * time.Second,
		RequestTimeout: 10 * time.Second,
	}
}
