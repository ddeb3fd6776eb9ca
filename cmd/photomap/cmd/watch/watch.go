// Package watch provides the command that follows marker changes as they
// happen.
package watch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/photomap"
	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/cmd/output"
	"github.com/agentstation/photomap/internal/cmd/session"
	"github.com/agentstation/photomap/internal/metrics"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/photos"
)

// NewCommand creates the watch command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		live        bool
		interval    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: "core",
		Short:   "Print marker changes until interrupted",
		Long: `Watch signs in, prints the current markers as additions and then prints
every change: "+" for a new photo, "~" for an edited one, "-" for a
removed one and "!" for an error.

By default the markers are refreshed on a timer. With --live the command
subscribes to the service's change stream instead and refreshes as soon as
another client uploads or edits a photo.`,
		Example: `  photomap watch --interval 10s
  photomap watch --live --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := app.Logger()

			opts := []photomap.Option{photomap.WithAutoUpdateInterval(interval)}
			var collector *metrics.Collector
			if metricsAddr != "" {
				collector = metrics.NewCollector("photomap")
				opts = append(opts, photomap.WithMetrics(collector))
			}

			pm, err := app.Photomap(opts...)
			if err != nil {
				return err
			}
			defer func() { _ = pm.AutoUpdatesOff() }()

			p := &printer{w: cmd.OutOrStdout()}
			p.register(pm)

			if err := session.SignIn(ctx, pm, app.Credentials(), photos.Signin); err != nil {
				return err
			}
			pm.RefreshHashtags(ctx)

			if collector != nil {
				stop, err := serveMetrics(metricsAddr, collector)
				if err != nil {
					return err
				}
				defer stop()
				logger.Info().Str("addr", metricsAddr).Msg("Serving metrics")
			}

			if live {
				logger.Info().Msg("Listening for changes")
				return pm.Listen(ctx)
			}

			if err := pm.AutoUpdatesOn(); err != nil {
				return err
			}
			logger.Info().Dur("interval", interval).Msg("Refreshing periodically")
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "follow the service's change stream instead of polling")
	cmd.Flags().DurationVar(&interval, "interval", constants.DefaultRefreshInterval, "refresh interval when polling")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	return cmd
}

// printer writes one line per hook call. Hooks run on the refreshing
// goroutine, which differs between polling and live mode.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) register(pm photomap.Hooks) {
	pm.OnMarkerAdded(func(m photos.Marker) {
		p.printf("+ %s  %s  (%s)\n", m.ID, m.Title, output.FormatLatLng(m.Position))
	})
	pm.OnMarkerUpdated(func(_, m photos.Marker) {
		p.printf("~ %s  %s  %s\n", m.ID, m.Title, output.FormatHashtags(m.Hashtags))
	})
	pm.OnMarkerRemoved(func(m photos.Marker) {
		p.printf("- %s  %s\n", m.ID, m.Title)
	})
	pm.OnError(func(message string) {
		p.printf("! %s\n", message)
	})
}

// serveMetrics starts a Prometheus endpoint and returns a func that stops it.
func serveMetrics(addr string, collector *metrics.Collector) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: constants.DefaultHTTPTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	// surface an immediate bind failure
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("serve metrics on %s: %w", addr, err)
	case <-time.After(50 * time.Millisecond):
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
