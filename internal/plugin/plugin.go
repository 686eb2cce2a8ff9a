// Package plugin binds host lifecycle callbacks to the bank state reader and
// the status server.
package plugin

import (
	"github.com/rs/zerolog"

	"github.com/thealiamalia/nyami-bank-state/internal/config"
	"github.com/thealiamalia/nyami-bank-state/internal/event"
	"github.com/thealiamalia/nyami-bank-state/internal/host"
	"github.com/thealiamalia/nyami-bank-state/internal/server"
	"github.com/thealiamalia/nyami-bank-state/internal/state"
)

// Descriptor describes the plugin to the host's plugin list.
type Descriptor struct {
	Name        string
	Description string
	Tags        []string
}

// Info is the plugin's descriptor.
var Info = Descriptor{
	Name:        "Expose Bank State",
	Description: "Expose bank open/closed state to localhost for overlays",
	Tags:        []string{"bank", "state", "overlay", "http"},
}

// ConfigProvider supplies the current configuration snapshot.
type ConfigProvider interface {
	Snapshot() config.Config
}

// Plugin owns the reader and the status server. None of its methods return
// errors: failures are logged and the host keeps running.
type Plugin struct {
	cfg    ConfigProvider
	reader *state.Reader
	server *server.Server
	bus    *event.Bus
	log    zerolog.Logger
}

// New wires a plugin. bus may be nil.
func New(client host.Client, cfg ConfigProvider, bus *event.Bus, log zerolog.Logger, opts server.Options) *Plugin {
	reader := state.NewReader(client, log.With().Str("component", "state").Logger())
	return &Plugin{
		cfg:    cfg,
		reader: reader,
		server: server.New(reader, bus, log.With().Str("component", "server").Logger(), opts),
		bus:    bus,
		log:    log,
	}
}

// Server returns the status server.
func (p *Plugin) Server() *server.Server {
	return p.server
}

// Reader returns the bank state reader.
func (p *Plugin) Reader() *state.Reader {
	return p.reader
}

// OnStart primes the bank state and starts the status server.
func (p *Plugin) OnStart() {
	p.reader.BankOpen()
	cfg := p.restart()

	p.log.Info().
		Bool("enableHttp", cfg.EnableHTTP).
		Int("port", cfg.Port).
		Msg("Expose Bank State started")
	p.publish(event.Event{Type: event.PluginStarted})
}

// OnStop stops the status server.
func (p *Plugin) OnStop() {
	if err := p.server.Stop(); err != nil {
		p.log.Debug().Err(err).Msg("error closing listener")
	}

	p.log.Info().Msg("Expose Bank State stopped")
	p.publish(event.Event{Type: event.PluginStopped})
}

// OnConfigChanged restarts the status server for any change in the plugin's
// group. Which key changed is not inspected.
func (p *Plugin) OnConfigChanged(group, key, newValue string) {
	if group != config.Group {
		return
	}

	p.restart()
	p.log.Info().Str("key", key).Str("value", newValue).Msg("Expose Bank State config changed")
}

// Subscribe routes ConfigChanged events from bus to OnConfigChanged.
// It returns the unsubscribe function.
func (p *Plugin) Subscribe(bus *event.Bus) func() {
	return bus.Subscribe(event.ConfigChanged, func(e event.Event) {
		data, ok := e.Data.(event.ConfigChangedData)
		if !ok {
			return
		}
		p.OnConfigChanged(data.Group, data.Key, data.NewValue)
	})
}

// restart errors are already logged by the server.
func (p *Plugin) restart() config.Config {
	cfg, _ := p.server.RestartFrom(p.cfg.Snapshot)
	return cfg
}

func (p *Plugin) publish(e event.Event) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}
