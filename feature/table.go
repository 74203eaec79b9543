package feature

import (
	"fmt"
	"io"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/internal/binio"
	"github.com/hupe1980/cartkit/internal/conv"
)

const (
	maxTableFeatures = 1 << 24
	maxFeatureValues = 1 << 20
)

// ReadFeatures loads features from the binary table format:
//
//	Count:int32 { Index:int32 MetaFeatureIndex:int32 ValueCount:int32 Value:int32[ValueCount] }
func (m *MetaCart) ReadFeatures(r io.Reader) error {
	br := binio.NewReader(r, "read feature table")

	raw, err := br.Int32()
	if err != nil {
		return err
	}
	count, err := conv.Count(raw, maxTableFeatures)
	if err != nil {
		return &core.FormatError{Op: br.Op(), Offset: 0, Detail: "feature count", Err: err}
	}

	for range count {
		start := br.Offset()
		var f Feature

		idx, err := br.Int32()
		if err != nil {
			return err
		}
		meta, err := br.Int32()
		if err != nil {
			return err
		}
		countAt := br.Offset()
		raw, err := br.Int32()
		if err != nil {
			return err
		}
		n, err := conv.Count(raw, maxFeatureValues)
		if err != nil {
			return &core.FormatError{Op: br.Op(), Offset: countAt, Detail: fmt.Sprintf("feature %d value count", idx), Err: err}
		}

		f.Index, f.MetaFeatureIndex = int(idx), int(meta)
		f.Values = make([]int, n)
		for i := range f.Values {
			v, err := br.Int32()
			if err != nil {
				return err
			}
			f.Values[i] = int(v)
		}

		if err := m.AddFeature(f); err != nil {
			return &core.FormatError{Op: br.Op(), Offset: start, Detail: fmt.Sprintf("feature %d", idx), Err: err}
		}
	}
	return nil
}

// WriteFeatures writes all features in ascending index order using the
// binary table format.
func (m *MetaCart) WriteFeatures(w io.Writer) error {
	bw := binio.NewWriter(w)

	features := m.Features()
	count, err := conv.IntToInt32(len(features))
	if err != nil {
		return err
	}
	bw.Int32(count)

	for _, f := range features {
		vals := make([]int32, 0, len(f.Values)+3)
		for _, x := range []int{f.Index, f.MetaFeatureIndex, len(f.Values)} {
			v, err := conv.IntToInt32(x)
			if err != nil {
				return fmt.Errorf("feature %d: %w", f.Index, err)
			}
			vals = append(vals, v)
		}
		for _, x := range f.Values {
			v, err := conv.IntToInt32(x)
			if err != nil {
				return fmt.Errorf("feature %d: %w", f.Index, err)
			}
			vals = append(vals, v)
		}
		for _, v := range vals {
			bw.Int32(v)
		}
	}
	return bw.Err()
}
