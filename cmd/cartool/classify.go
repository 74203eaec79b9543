package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/cartkit"
	"github.com/hupe1980/cartkit/codec"
	"github.com/hupe1980/cartkit/feature"
)

type classifyJSON struct {
	Tree  string `json:"tree"`
	Leaf  int    `json:"leaf"`
	Units []int  `json:"units"`
}

func newClassifyCmd(a *app) *cobra.Command {
	var (
		modelURI string
		tree     string
		vector   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Route a feature vector through a tree of a model",
		Long: `Route a feature vector through a tree of a model and print the leaf.

The vector is a comma separated list of name=value pairs. Names are meta
feature names or indices, values are labels or numeric ids.`,
		Example: `  cartool classify --model ./voice --tree duration --vector Tone=high,Stress=1
  cartool classify --model s3://voices/en-US --tree f0 --vector 0=2`,
		Args: cobra.NoArgs,
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

			v, err := parseVector(m.Meta(), vector)
			if err != nil {
				return err
			}
			leaf, err := m.Classify(ctx, tree, v)
			if err != nil {
				return err
			}

			out := classifyJSON{Tree: tree, Leaf: leaf.Index, Units: leaf.Units.Indices()}
			if asJSON {
				data, err := codec.GoJSON{}.MarshalIndent(out)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "leaf %d (%d units): %v\n", out.Leaf, len(out.Units), out.Units)
			return err
		},
	}
	cmd.Flags().StringVar(&modelURI, "model", "", "model location (path, s3://bucket/prefix, minio://host/bucket/prefix)")
	cmd.Flags().StringVar(&tree, "tree", "", "tree name")
	cmd.Flags().StringVar(&vector, "vector", "", "feature values, e.g. Tone=high,Stress=1")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("tree")
	return cmd
}

// parseVector resolves "name=value" pairs against meta.
func parseVector(meta *feature.MetaCart, s string) (feature.Map, error) {
	v := feature.Map{}
	if strings.TrimSpace(s) == "" {
		return v, nil
	}

	for _, pair := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("vector entry %q: want name=value", pair)
		}

		mf, ok := meta.MetaFeatureByName(key)
		if !ok {
			idx, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("vector entry %q: unknown meta feature", pair)
			}
			if mf, ok = meta.MetaFeature(idx); !ok {
				return nil, fmt.Errorf("vector entry %q: unknown meta feature", pair)
			}
		}

		id, ok := valueID(meta, mf, val)
		if !ok {
			return nil, fmt.Errorf("vector entry %q: unknown value for %s", pair, mf.Name())
		}
		v[mf.Index()] = id
	}
	return v, nil
}

func valueID(meta *feature.MetaCart, mf *feature.MetaFeature, val string) (int, bool) {
	if id, ok := mf.ValueID(val); ok {
		return id, true
	}
	if mf.Kind() == feature.KindPhone && meta.PhoneSet() != nil {
		if id, ok := meta.PhoneSet().PhoneID(val); ok {
			return id, true
		}
	}
	id, err := strconv.Atoi(val)
	return id, err == nil
}
