package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/cartkit"
)

func newInfoCmd(a *app) *cobra.Command {
	var modelURI string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe the trees of a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx, modelURI)
			if err != nil {
				return err
			}
			m, err := cartkit.Open(ctx, store, cartkit.WithLogger(a.logger))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			meta := m.Meta()
			fmt.Fprintf(w, "language: %s\nengine:   %s\nfeatures: %d\n\n", meta.Language(), meta.EngineType(), meta.NumFeatures())

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TREE\tNODES\tLEAVES\tDEPTH\tUNITS")
			for _, name := range m.Names() {
				t, err := m.Tree(name)
				if err != nil {
					return err
				}
				s := t.Summary()
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", name, s.Nodes, s.Leaves, s.Depth, s.Units)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&modelURI, "model", "", "model location (path, s3://bucket/prefix, minio://host/bucket/prefix)")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}
