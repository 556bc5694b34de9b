package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuemby/rosmaster/pkg/log"
	"github.com/cuemby/rosmaster/pkg/master"
	"github.com/cuemby/rosmaster/pkg/metrics"
	"github.com/cuemby/rosmaster/pkg/xmlrpc"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "rosmaster",
	Short:   "rosmaster - ROS graph naming, registration and discovery service",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("rosmaster version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the master, listening for XML-RPC calls",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("host", "0.0.0.0", "address the master listens on")
	serveCmd.Flags().Int("port", 11311, "port the master listens on")
	serveCmd.Flags().String("metrics-addr", ":9090", "address the Prometheus /metrics endpoint listens on")
	serveCmd.Flags().String("uri", "", "master URI advertised to callers (defaults to http://host:port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	uri, _ := cmd.Flags().GetString("uri")
	if uri == "" {
		uri = fmt.Sprintf("http://%s:%d", host, port)
	}

	m := master.New(uri)
	rpcServer := &xmlrpc.Server{Dispatch: m.Dispatch}

	collector := metrics.NewCollector(m)
	collector.Start()
	defer collector.Stop()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{Addr: metricsAddr, Handler: metricsMux}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	addr := fmt.Sprintf("%s:%d", host, port)
	rpcSrv := &http.Server{Addr: addr, Handler: rpcServer}

	errCh := make(chan error, 1)
	go func() {
		log.Logger.Info().Str("addr", addr).Str("uri", uri).Msg("master listening")
		if err := rpcSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("master failed to bind %s: %w", addr, err)
	case sig := <-sigCh:
		log.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = rpcSrv.Shutdown(ctx)
	_ = metricsSrv.Shutdown(ctx)
	return nil
}
