package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/thealiamalia/nyami-bank-state/internal/config"
	"github.com/thealiamalia/nyami-bank-state/internal/server"
)

var (
	probePort    int
	probeTimeout time.Duration
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Query a running status server",
	Long: `Fetch /state from the local status server and print the body.

The request is retried with exponential backoff until --timeout, so probe
can be used to wait for a freshly started server.`,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().IntVarP(&probePort, "port", "p", 0, "Port to query (default from config)")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 5*time.Second, "Give up after this long")
}

func runProbe(cmd *cobra.Command, args []string) error {
	port := probePort
	if port == 0 {
		cfg, err := config.Load(resolveConfigPath())
		if err != nil {
			return err
		}
		port = cfg.Port
	}
	if err := config.ValidatePort(port); err != nil {
		return err
	}

	url := "http://" + server.LoopbackHost + ":" + strconv.Itoa(port) + server.StatePath

	ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
	defer cancel()

	body, err := fetchWithRetry(ctx, url)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), body)
	return nil
}

// newProbeBackoff retries quickly at first since the server binds in milliseconds.
func newProbeBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 0 // bounded by ctx
	b.RandomizationFactor = 0.5
	b.Multiplier = 2.0
	b.Reset()
	return backoff.WithContext(b, ctx)
}

func fetchWithRetry(ctx context.Context, url string) (string, error) {
	client := &http.Client{Timeout: 2 * time.Second}

	var body string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("status %d: %s", resp.StatusCode, data))
		}
		body = string(data)
		return nil
	}

	if err := backoff.Retry(op, newProbeBackoff(ctx)); err != nil {
		return "", err
	}
	return body, nil
}
