package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marlomb/qcompose/internal/tui"
	"github.com/marlomb/qcompose/pkg/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive circuit composer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	// Log lines would corrupt the alternate-screen frame, so the TUI logs
	// to a file instead of stdout.
	var out io.Writer = io.Discard
	if f, err := os.OpenFile("qcompose.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		defer f.Close()
		out = f
	}
	log := logger.New(logger.Config{Level: logLevel, Out: out})

	log.Info().Msg("starting composer")
	return tui.Run(log)
}
