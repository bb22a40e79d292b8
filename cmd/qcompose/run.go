package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/marlomb/qcompose/internal/circuit"
	"github.com/marlomb/qcompose/internal/quantum"
)

var (
	runShots int
	runSeed  int64
	runJSON  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file.qasm]",
	Short: "Simulate a QASM circuit headlessly",
	Long: `Parse a QASM file (or stdin when no file is given), simulate it, and
print the probability distribution. With --shots, also draw measurement
samples and print the histogram.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var src []byte
		var err error
		if len(args) == 1 {
			src, err = os.ReadFile(args[0])
		} else {
			src, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		c, err := circuit.ParseQASM(string(src))
		if err != nil {
			return err
		}
		probs, err := quantum.Simulate(c)
		if err != nil {
			return err
		}

		var counts map[string]int
		if runShots > 0 {
			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewSource(runSeed))
			}
			counts, err = quantum.SampleCounts(probs, runShots, rng)
			if err != nil {
				return err
			}
		}

		if runJSON {
			out := map[string]any{
				"qubits":        c.NumQubits,
				"probabilities": probs,
			}
			if counts != nil {
				out["shots"] = runShots
				out["counts"] = counts
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		fmt.Printf("qubits: %d\n\nprobabilities:\n", c.NumQubits)
		for i, p := range probs {
			if p < 1e-9 {
				continue
			}
			fmt.Printf("  |%s⟩  %.6f\n", quantum.BitstringKey(i, c.NumQubits), p)
		}
		if counts != nil {
			fmt.Printf("\ncounts (%d shots):\n", runShots)
			keys := make([]string, 0, len(counts))
			for k := range counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %s  %d\n", k, counts[k])
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runShots, "shots", 0, "measurement shots to sample (0 skips sampling)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed for reproducible sampling")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "emit JSON instead of text")
}
