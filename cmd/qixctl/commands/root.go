package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	enigma "github.com/wagiedev/enigma-go"
)

var (
	configPath string
	address    string
	logLevel   string
	delta      bool

	cfg Config
	log *slog.Logger
)

// Execute runs the qixctl root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qixctl",
		Short:         "Talk to a QIX engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("address") {
				loaded.Address = address
				loaded.Command = nil
			}

			if cmd.Flags().Changed("delta") {
				loaded.Delta = delta
			}

			if cmd.Flags().Changed("log-level") {
				if err := loaded.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
					return fmt.Errorf("parse --log-level: %w", err)
				}
			}

			cfg = loaded
			log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	root.PersistentFlags().StringVarP(&address, "address", "a", "", "engine host:port (default localhost:9076)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&delta, "delta", false, "request incremental payloads")

	root.AddCommand(versionCmd(), callCmd(), watchCmd())

	return root
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// withSession runs fn with an open session built from the configuration.
func withSession(ctx context.Context, reg prometheus.Registerer, fn func(enigma.Session, *enigma.ObjectAPI) error) error {
	opts, err := cfg.SessionOptions(log)
	if err != nil {
		return err
	}

	if reg != nil {
		opts = append(opts, enigma.WithMetricsRegisterer(reg))
	}

	return enigma.WithSession(ctx, fn, opts...)
}

// serveMetrics exposes reg on cfg.MetricsAddress until ctx is done.
// It returns nil when no metrics address is configured.
func serveMetrics(ctx context.Context) *prometheus.Registry {
	if cfg.MetricsAddress == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              cfg.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Serving metrics", "address", cfg.MetricsAddress)

		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	return reg
}
