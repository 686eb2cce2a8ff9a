package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/thealiamalia/nyami-bank-state/internal/event"
)

// Store holds the live configuration of the group and announces every key
// change on the event bus as event.ConfigChanged.
type Store struct {
	mu  sync.RWMutex
	cfg Config
	bus *event.Bus
}

// NewStore creates a store seeded with cfg. bus may be nil.
func NewStore(cfg Config, bus *event.Bus) *Store {
	return &Store{cfg: cfg, bus: bus}
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set updates a single key from its string form, as a host settings UI would.
// Setting a key to its current value publishes nothing.
func (s *Store) Set(key, value string) error {
	value = strings.TrimSpace(value)

	s.mu.Lock()
	next := s.cfg
	switch key {
	case KeyEnableHTTP:
		b, err := strconv.ParseBool(value)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("%s: %w", key, err)
		}
		next.EnableHTTP = b
	case KeyPort:
		p, err := strconv.Atoi(value)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("%s: %w", key, err)
		}
		next.Port = p
	default:
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	changes := diff(s.cfg, next)
	s.cfg = next
	s.mu.Unlock()

	s.publish(changes)
	return nil
}

// Replace swaps in a whole configuration, publishing one event per changed key.
func (s *Store) Replace(cfg Config) {
	s.mu.Lock()
	changes := diff(s.cfg, cfg)
	s.cfg = cfg
	s.mu.Unlock()

	s.publish(changes)
}

// publish runs outside the lock so subscribers may call Snapshot.
func (s *Store) publish(changes []event.ConfigChangedData) {
	if s.bus == nil {
		return
	}
	for _, c := range changes {
		s.bus.PublishSync(event.Event{Type: event.ConfigChanged, Data: c})
	}
}

func diff(old, next Config) []event.ConfigChangedData {
	var changes []event.ConfigChangedData
	if old.EnableHTTP != next.EnableHTTP {
		changes = append(changes, event.ConfigChangedData{
			Group:    Group,
			Key:      KeyEnableHTTP,
			NewValue: strconv.FormatBool(next.EnableHTTP),
		})
	}
	if old.Port != next.Port {
		changes = append(changes, event.ConfigChangedData{
			Group:    Group,
			Key:      KeyPort,
			NewValue: strconv.Itoa(next.Port),
		})
	}
	return changes
}
