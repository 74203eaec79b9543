package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/cartkit/codec"
)

func newDumpCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the nodes of a tree file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTree(args[0])
			if err != nil {
				return err
			}
			if err := t.Propagate(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				data, err := codec.GoJSON{}.MarshalIndent(t.Summary())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			}

			s := t.Summary()
			fmt.Fprintf(w, "nodes=%d leaves=%d depth=%d units=%d\n", s.Nodes, s.Leaves, s.Depth, s.Units)
			printTree(w, t.Root, 0)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
