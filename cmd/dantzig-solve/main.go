// Command dantzig-solve runs an external LP/MIP solver over an LP-format
// file and prints the result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fumin/dantzig/solve"
)

var rootCmd = &cobra.Command{
	Use:   "dantzig-solve [lp-file]",
	Short: "Solve an LP-format model with an external solver.",
	Long:  "dantzig-solve runs an external LP/MIP solver over an LP-format file and reports the outcome as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func init() {
	rootCmd.Flags().String("solver", "highs", "path to the solver binary")
	rootCmd.Flags().Float64("time-limit", 0, "solver time limit in seconds (0 means no limit)")
	rootCmd.Flags().Bool("compute-iis", false, "compute an irreducible infeasible subsystem if the problem is infeasible")
	rootCmd.Flags().Float64("mip-rel-gap", -1, "MIP relative gap tolerance (negative means unset)")
	rootCmd.Flags().Bool("log-to-console", false, "ask the solver to log to console")
	rootCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
}

func runSolve(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	solverPath, _ := cmd.Flags().GetString("solver")
	timeLimit, _ := cmd.Flags().GetFloat64("time-limit")
	computeIIS, _ := cmd.Flags().GetBool("compute-iis")
	mipRelGap, _ := cmd.Flags().GetFloat64("mip-rel-gap")
	logToConsole, _ := cmd.Flags().GetBool("log-to-console")

	opts := solve.Options{
		SolverPath:   solverPath,
		TimeLimit:    timeLimit,
		ComputeIIS:   computeIIS,
		LogToConsole: logToConsole,
	}
	if mipRelGap >= 0 {
		opts.MIPRelGap = &mipRelGap
	}

	result, err := solve.SolveLPFile(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
