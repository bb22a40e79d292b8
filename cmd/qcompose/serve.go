package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marlomb/qcompose/internal/config"
	"github.com/marlomb/qcompose/internal/server"
	"github.com/marlomb/qcompose/pkg/logger"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}

		log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
		log.Info().Int("port", cfg.Port).Msg("starting qcompose API")

		srv := server.New(server.Config{Log: log, Port: cfg.Port})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "HTTP listen port")
}
