// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command psrs sorts a generated array of random integers with Parallel Sort
// by Regular Sampling and reports how long each phase took.
//
// Usage:
//
//	psrs <array-size> <thread-count> [flags]
//	psrs 10000000 8
//	psrs 10000000 8 --seed 42 --max-value 1000 --history runs.db
//	psrs history --db runs.db --limit 10
//
// Unless --verify=false is given, the same input is also sorted sequentially
// and the PSRS output is compared with it; a mismatch exits with status 1.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

func main() {
	defer glog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

// newRootCmd builds the psrs command tree.
func newRootCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "psrs <array-size> <thread-count>",
		Short: "Sort random integers with Parallel Sort by Regular Sampling",
		Long: "psrs generates <array-size> random integers, sorts them with <thread-count>\n" +
			"PSRS workers, prints the time taken by each phase, and checks the result\n" +
			"against a sequential sort.",
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			// glog reads its flags from the standard flag set.
			return goflag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.parseArgs(args); err != nil {
				return err
			}
			// Configuration is valid from here on; usage is no help for
			// run-time failures.
			cmd.SilenceUsage = true
			opts.seedSet = cmd.Flags().Changed("seed")
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.Uint64Var(&opts.seed, "seed", 0, "random seed for the input (default: derived from the clock)")
	f.Int64Var(&opts.maxValue, "max-value", 0, "generate keys in [0, max-value); 0 uses the full int64 range")
	f.DurationVar(&opts.timeout, "timeout", 0, "abort the parallel sort after this long (0: no limit)")
	f.BoolVar(&opts.verify, "verify", true, "compare the result with a sequential sort")
	f.StringVar(&opts.historyPath, "history", "", "append the run to this history database")
	f.StringVar(&opts.metricsPath, "metrics-file", "", "write Prometheus metrics to this file")

	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	if fl := goflag.Lookup("logtostderr"); fl != nil {
		_ = fl.Value.Set("true")
		fl.DefValue = "true"
	}

	cmd.AddCommand(newHistoryCmd())
	return cmd
}
