package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/spf13/cobra"

	"github.com/thealiamalia/nyami-bank-state/internal/config"
	"github.com/thealiamalia/nyami-bank-state/internal/event"
	"github.com/thealiamalia/nyami-bank-state/internal/host"
	"github.com/thealiamalia/nyami-bank-state/internal/logging"
	"github.com/thealiamalia/nyami-bank-state/internal/plugin"
	"github.com/thealiamalia/nyami-bank-state/internal/server"
)

var (
	serveWidgets string
	serveNoWatch bool
	serveNoCORS  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status server",
	Long: `Run the plugin outside a game client. Widget state is read from a
widget file (see 'bankstate widget') and the config file is watched, so
edits to enableHttp or port restart the listener.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveWidgets, "widgets", "", "Widget state file (default $XDG_STATE_HOME/bankstate/widgets.json)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload the config file on change")
	serveCmd.Flags().BoolVar(&serveNoCORS, "no-cors", false, "Disable CORS headers")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Logger

	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	widgetPath := serveWidgets
	if widgetPath == "" {
		widgetPath = config.GetPaths().WidgetFile()
	}

	bus := event.NewBus()
	defer bus.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	msgs, err := bus.Stream(ctx, event.ServerListening)
	if err != nil {
		return err
	}
	go announce(msgs, cmd.OutOrStdout())

	store := config.NewStore(cfg, bus)

	opts := server.DefaultOptions()
	opts.EnableCORS = !serveNoCORS

	p := plugin.New(host.NewFile(widgetPath), store, bus, log, opts)
	unsubscribe := p.Subscribe(bus)
	defer unsubscribe()

	// The watch is registered before the listener binds so an edit made
	// as soon as the server answers is queued rather than missed.
	var watcher *config.Watcher
	if !serveNoWatch {
		watcher, err = config.NewWatcher(path, store, logging.Component("config"))
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config watching disabled")
		}
	}

	log.Info().Str("config", path).Str("widgets", widgetPath).Msgf("Starting bankstate v%s", Version)
	p.OnStart()
	defer p.OnStop()

	if watcher != nil {
		watcher.Start()
		defer watcher.Stop()
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down...")
	return nil
}

// announce prints each new endpoint URL to stdout for scripts wrapping serve.
func announce(msgs <-chan *message.Message, out io.Writer) {
	for msg := range msgs {
		e, err := event.Decode(msg)
		msg.Ack()
		if err != nil {
			continue
		}
		if data, ok := e.Data.(map[string]any); ok {
			fmt.Fprintln(out, data["url"])
		}
	}
}
