// Package main is the qcompose entry point: a terminal quantum circuit
// composer with a statevector simulator behind it, plus headless run and
// HTTP serve modes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "qcompose",
	Short: "Compose and simulate small quantum circuits",
	Long: `qcompose is a terminal quantum circuit composer. Place Hadamard,
Pauli-X, CNOT and measurement gates on up to 12 qubit wires, watch the
statevector probabilities update live, and draw measurement shots from
the resulting distribution.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(tuiCmd, runCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
