package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/cartkit/blobstore"
	"github.com/hupe1980/cartkit/cart"
	"github.com/hupe1980/cartkit/pack"
)

func newConvertCmd() *cobra.Command {
	var (
		setType     string
		compression string
		raw         bool
	)

	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Re-encode a tree file",
		Long: `Re-encode a tree file, optionally changing the leaf set encoding and the
container compression. With --raw the output is a plain CART stream.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTree(args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("set-type") {
				st, err := cart.ParseSetType(setType)
				if err != nil {
					return err
				}
				for _, leaf := range t.Leaves() {
					leaf.SetType = st
				}
			}

			data, err := t.MarshalBinary()
			if err != nil {
				return err
			}
			if !raw {
				c, err := pack.ParseCompression(compression)
				if err != nil {
					return err
				}
				if data, err = pack.Encode(data, c); err != nil {
					return err
				}
			}

			out, err := filepath.Abs(args[1])
			if err != nil {
				return err
			}
			store := blobstore.NewLocalStore(filepath.Dir(out))
			if err := store.Put(cmd.Context(), filepath.Base(out), data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", args[1], len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&setType, "set-type", "auto", "leaf encoding (bitset, indexset, auto); unchanged when not given")
	cmd.Flags().StringVar(&compression, "compression", "zstd", "container compression (none, lz4, zstd)")
	cmd.Flags().BoolVar(&raw, "raw", false, "write a plain CART stream without container")
	return cmd
}
