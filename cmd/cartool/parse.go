package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/cartkit/codec"
	"github.com/hupe1980/cartkit/expr"
)

type recordJSON struct {
	Code  string `json:"code"`
	Flag  int16  `json:"flag"`
	Left  int32  `json:"left"`
	Right int32  `json:"right"`
}

type parseJSON struct {
	Canonical string       `json:"canonical"`
	Root      int          `json:"root"`
	Features  []int32      `json:"features"`
	Records   []recordJSON `json:"records"`
}

func newParseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse EXPR",
		Short: "Compile a question expression and print its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := expr.Parse(args[0])
			if err != nil {
				return err
			}

			out := parseJSON{
				Canonical: e.String(),
				Root:      e.Root(),
				Features:  e.Terminals(),
			}
			for _, r := range e.Records() {
				out.Records = append(out.Records, recordJSON{
					Code:  r.Code.String(),
					Flag:  r.Flag(),
					Left:  r.Left.Value,
					Right: r.Right.Value,
				})
			}

			if asJSON {
				data, err := codec.GoJSON{}.MarshalIndent(out)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "canonical: %s\n", out.Canonical)
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tCODE\tFLAG\tLEFT\tRIGHT")
			for i, r := range e.Records() {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", i, r.Code, r.Flag(), r.Left, r.Right)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
