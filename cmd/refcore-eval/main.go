// Command refcore-eval drives the evaluation harness (package eval) from
// the command line: "run" executes one suite against a ground-truth file,
// "sweep" runs the harness once per cell of a recursive-config grid and
// reports the winning cell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "refcore-eval",
	Short: "Ground-truth evaluation harness for refcore's retrieval modes",
	Long: `refcore-eval runs the bounded recursive retrieval loop and its
non-recursive baselines against a ground-truth suite, scoring each case's
substring expectations and aggregating size, latency, and pass-rate
statistics.

Use "run" for a single suite and "sweep" to search a recursive-config grid
for the cell with the best passRate/tokens/latency trade-off.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file layered under flags (and env REFCORE_EVAL_*)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}

// bindViper returns a viper instance with cfgFile (if set) loaded, env
// binding enabled, and cmd's flags bound so callers can read resolved
// values through it regardless of whether they came from a flag, the
// config file, or the environment.
func bindViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("REFCORE_EVAL")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("refcore-eval: read config %s: %w", cfgFile, err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("refcore-eval: bind flags: %w", err)
	}
	return v, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
