package feature

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Schema is the YAML description of a MetaCart's meta features.
//
//	language: en-US
//	engine_type: hmm
//	meta_features:
//	  - index: 0
//	    name: LeftPhone
//	    kind: phone
//	  - index: 1
//	    name: Stress
//	    values: {0: none, 1: primary, 2: secondary}
type Schema struct {
	Language     string              `yaml:"language"`
	EngineType   string              `yaml:"engine_type"`
	MetaFeatures []MetaFeatureSchema `yaml:"meta_features"`
}

// MetaFeatureSchema describes one meta feature.
type MetaFeatureSchema struct {
	Index  int            `yaml:"index"`
	Name   string         `yaml:"name"`
	Kind   string         `yaml:"kind,omitempty"`
	Values map[int]string `yaml:"values,omitempty"`
}

// LoadSchema decodes a YAML schema and builds an empty MetaCart from it.
// Unknown keys are rejected.
func LoadSchema(r io.Reader, opts ...Option) (*MetaCart, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Schema
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode feature schema: %w", err)
	}
	return s.Build(opts...)
}

// Build creates an empty MetaCart from the schema.
func (s Schema) Build(opts ...Option) (*MetaCart, error) {
	metas := make([]*MetaFeature, 0, len(s.MetaFeatures))
	for _, ms := range s.MetaFeatures {
		kind, err := ParseKind(ms.Kind)
		if err != nil {
			return nil, fmt.Errorf("meta feature %q: %w", ms.Name, err)
		}
		mf, err := NewMetaFeature(ms.Index, ms.Name, kind, ms.Values)
		if err != nil {
			return nil, err
		}
		metas = append(metas, mf)
	}
	return NewMetaCart(s.Language, s.EngineType, metas, opts...)
}

// Schema describes the MetaCart's meta features. Features are not included.
func (m *MetaCart) Schema() Schema {
	s := Schema{Language: m.language, EngineType: m.engineType}
	for _, mf := range m.MetaFeatures() {
		ms := MetaFeatureSchema{Index: mf.Index(), Name: mf.Name(), Kind: mf.Kind().String()}
		if len(mf.values) > 0 {
			ms.Values = make(map[int]string, len(mf.values))
			for _, v := range mf.values {
				ms.Values[v.ID] = v.Label
			}
		}
		s.MetaFeatures = append(s.MetaFeatures, ms)
	}
	return s
}

// WriteSchema encodes the MetaCart's schema as YAML.
func (m *MetaCart) WriteSchema(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m.Schema()); err != nil {
		return err
	}
	return enc.Close()
}
