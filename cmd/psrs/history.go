package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/solarcreature/PSRS/psrs/contrib/history"
)

func newHistoryCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded with --history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				return errors.Wrap(errConfig, "--db is required")
			}
			cmd.SilenceUsage = true
			store, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(limit)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), recs)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "history database written by --history")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list (0: all)")
	return cmd
}

func printHistory(out io.Writer, recs []history.Record) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tWHEN\tKEYS\tTHREADS\tPHASES (µs)\tTOTAL (µs)\tSEQUENTIAL (µs)\tIMBALANCE\tRESULT")
	for _, r := range recs {
		phases := lo.Map(r.PhaseMicro[:], func(us int64, _ int) string { return humanize.Comma(us) })
		result := "unverified"
		if r.Verified {
			result = lo.Ternary(r.Equivalent, "equal", "NOT equal")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%v\t%s\t%s\t%.2f\t%s\n",
			r.Seq,
			humanize.Time(r.Time),
			humanize.Comma(int64(r.ArraySize)),
			r.Threads,
			phases,
			humanize.Comma(r.TotalMicro),
			humanize.Comma(r.SeqMicro),
			r.Imbalance,
			result,
		)
	}
	return tw.Flush()
}
