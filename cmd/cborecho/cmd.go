package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/njern/cborbody"
)

type serveParams struct {
	addr       string
	configFile string
	limit      int64
	logLevel   string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cborecho",
		Short:        "Echo CBOR request bodies",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())

	return root
}

func newServeCmd() *cobra.Command {
	var params serveParams

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the echo server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, params)
		},
	}

	cmd.Flags().StringVar(&params.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&params.configFile, "config", "", "path to a TOML body config")
	cmd.Flags().Int64Var(&params.limit, "limit", 0, "maximum body size in bytes (overrides the config file)")
	cmd.Flags().StringVar(&params.logLevel, "log-level", "info", "log level")

	return cmd
}

// buildConfig merges the config file and flags; flags win.
func buildConfig(params serveParams, reg prometheus.Registerer) (cborbody.Config, error) {
	var cfg cborbody.Config

	if params.configFile != "" {
		fileCfg, err := cborbody.LoadConfig(params.configFile)
		if err != nil {
			return cborbody.Config{}, err
		}

		cfg = fileCfg
	}

	if params.limit > 0 {
		cfg = cfg.WithLimit(params.limit)
	}

	cfg.Metrics = cborbody.NewMetrics(reg)

	return cfg, nil
}

func newMux(cfg cborbody.Config, gatherer prometheus.Gatherer) http.Handler {
	echo := cborbody.Handle(func(_ context.Context, in cbor.RawMessage) (cbor.RawMessage, error) {
		return in, nil
	})

	mux := http.NewServeMux()
	mux.Handle("POST /echo", cborbody.WithConfig(cfg)(echo))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}

func serve(ctx context.Context, params serveParams) error {
	level, err := logrus.ParseLevel(params.logLevel)
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetLevel(level)
	cborbody.SetLogger(log)

	reg := prometheus.NewRegistry()

	cfg, err := buildConfig(params, reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              params.addr,
		Handler:           newMux(cfg, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.WithField("addr", params.addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
