package config

import (
	"errors"
	"fmt"
)

// Port bounds. Ports below MinPort are refused even where the OS would allow
// an unprivileged bind.
const (
	MinPort = 1024
	MaxPort = 65535
)

var (
	// ErrInvalidPort is returned for ports outside [MinPort, MaxPort].
	ErrInvalidPort = errors.New("port is invalid or privileged")
	// ErrUnknownKey is returned by Store.Set for keys outside the group.
	ErrUnknownKey = errors.New("unknown config key")
)

// ValidatePort reports whether port may be bound.
func ValidatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return fmt.Errorf("%w: %d (choose %d-%d)", ErrInvalidPort, port, MinPort, MaxPort)
	}
	return nil
}

// Validate checks configuration correctness.
// It performs declarative validation only and never mutates cfg.
// The port is not checked when HTTP is disabled.
func Validate(cfg Config) error {
	if !cfg.EnableHTTP {
		return nil
	}
	return ValidatePort(cfg.Port)
}
