package plugin

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thealiamalia/nyami-bank-state/internal/config"
	"github.com/thealiamalia/nyami-bank-state/internal/event"
	"github.com/thealiamalia/nyami-bank-state/internal/host"
	"github.com/thealiamalia/nyami-bank-state/internal/server"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func fetchState(t *testing.T, port int) string {
	t.Helper()
	resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func reachable(port int) bool {
	conn, err := net.DialTimeout("tcp", "127.0.0.1:"+strconv.Itoa(port), 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func TestPlugin_StartStop(t *testing.T) {
	port := freePort(t)
	widgets := host.NewMemory()
	widgets.SetHidden(host.BankContainer, false)
	store := config.NewStore(config.Config{EnableHTTP: true, Port: port}, nil)

	p := New(widgets, store, nil, zerolog.Nop(), server.DefaultOptions())
	p.OnStart()

	assert.True(t, p.Reader().Last(), "start should prime the bank state")
	require.True(t, p.Server().Running())
	assert.Equal(t, `{"bankOpen":true}`, fetchState(t, port))

	p.OnStop()
	assert.False(t, p.Server().Running())
	assert.False(t, reachable(port))
}

func TestPlugin_StartWithInvalidPortDoesNotPanic(t *testing.T) {
	store := config.NewStore(config.Config{EnableHTTP: true, Port: 80}, nil)

	var logs bytes.Buffer
	p := New(host.NewMemory(), store, nil, zerolog.New(&logs), server.DefaultOptions())

	assert.NotPanics(t, p.OnStart)
	assert.False(t, p.Server().Running())
	assert.Contains(t, logs.String(), "invalid or privileged")
	p.OnStop()
}

func TestPlugin_ConfigChangeRestarts(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	first, second := freePort(t), freePort(t)
	for first == second {
		second = freePort(t)
	}
	store := config.NewStore(config.Config{EnableHTTP: true, Port: first}, bus)

	p := New(host.NewMemory(), store, bus, zerolog.Nop(), server.DefaultOptions())
	unsub := p.Subscribe(bus)
	defer unsub()

	p.OnStart()
	defer p.OnStop()
	require.True(t, reachable(first))

	require.NoError(t, store.Set(config.KeyPort, strconv.Itoa(second)))
	assert.False(t, reachable(first))
	assert.True(t, reachable(second))

	require.NoError(t, store.Set(config.KeyEnableHTTP, "false"))
	assert.False(t, p.Server().Running())
	assert.False(t, reachable(second))

	require.NoError(t, store.Set(config.KeyEnableHTTP, "true"))
	assert.True(t, reachable(second))
}

func TestPlugin_IgnoresOtherGroups(t *testing.T) {
	port := freePort(t)
	store := config.NewStore(config.Config{EnableHTTP: true, Port: port}, nil)
	p := New(host.NewMemory(), store, nil, zerolog.Nop(), server.DefaultOptions())

	p.OnConfigChanged("grounditems", "port", "9000")
	assert.False(t, p.Server().Running(), "foreign groups must not start the server")

	p.OnConfigChanged(config.Group, config.KeyPort, strconv.Itoa(port))
	defer p.OnStop()
	assert.True(t, p.Server().Running())
}

func TestPlugin_RapidConfigChanges(t *testing.T) {
	port := freePort(t)
	store := config.NewStore(config.Config{EnableHTTP: true, Port: port}, nil)
	p := New(host.NewMemory(), store, nil, zerolog.Nop(), server.DefaultOptions())
	p.OnStart()
	defer p.OnStop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.OnConfigChanged(config.Group, config.KeyPort, strconv.Itoa(port))
	}()
	p.OnConfigChanged(config.Group, config.KeyEnableHTTP, "true")
	<-done

	assert.True(t, p.Server().Running())
	assert.Equal(t, `{"bankOpen":false}`, fetchState(t, port))
}

func TestPlugin_ConcurrentChangesApplyLatestConfig(t *testing.T) {
	ports := make([]int, 4)
	for i := range ports {
		ports[i] = freePort(t)
	}
	store := config.NewStore(config.Config{EnableHTTP: true, Port: ports[0]}, nil)
	p := New(host.NewMemory(), store, nil, zerolog.Nop(), server.DefaultOptions())
	p.OnStart()
	defer p.OnStop()

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			v := strconv.Itoa(port)
			if err := store.Set(config.KeyPort, v); err != nil {
				t.Error(err)
				return
			}
			p.OnConfigChanged(config.Group, config.KeyPort, v)
		}(ports[i%len(ports)])
	}
	wg.Wait()

	require.True(t, p.Server().Running())
	bound := p.Server().Addr().(*net.TCPAddr).Port
	assert.Equal(t, store.Snapshot().Port, bound, "listener must follow the newest snapshot")
}

func TestInfo(t *testing.T) {
	assert.Equal(t, "Expose Bank State", Info.Name)
	assert.Contains(t, Info.Tags, "overlay")
}
