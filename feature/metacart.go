package feature

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/hupe1980/cartkit/core"
)

// Option configures a MetaCart.
type Option func(*MetaCart)

// WithPhoneSet sets the phone table used for KindPhone meta features.
func WithPhoneSet(p PhoneSet) Option {
	return func(m *MetaCart) { m.phones = p }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(m *MetaCart) {
		if l != nil {
			m.logger = l
		}
	}
}

// MetaCart is the feature registry of one (language, engine type) pair.
//
// Loading methods mutate it; once loading is done it is safe for concurrent
// read-only use.
type MetaCart struct {
	language   string
	engineType string
	named      map[string]*MetaFeature
	indexed    map[int]*MetaFeature
	features   map[int]*Feature
	phones     PhoneSet
	logger     *slog.Logger
	overwrites int
}

// NewMetaCart creates a registry over the given meta features. Meta feature
// indices and names must be unique.
func NewMetaCart(language, engineType string, metas []*MetaFeature, opts ...Option) (*MetaCart, error) {
	m := &MetaCart{
		language:   language,
		engineType: engineType,
		named:      make(map[string]*MetaFeature, len(metas)),
		indexed:    make(map[int]*MetaFeature, len(metas)),
		features:   make(map[int]*Feature),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, mf := range metas {
		if mf == nil {
			return nil, fmt.Errorf("%w: nil meta feature", core.ErrInvalidArgument)
		}
		if _, dup := m.indexed[mf.Index()]; dup {
			return nil, fmt.Errorf("%w: duplicate meta feature index %d", core.ErrInvalidArgument, mf.Index())
		}
		if _, dup := m.named[mf.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate meta feature name %q", core.ErrInvalidArgument, mf.Name())
		}
		m.indexed[mf.Index()] = mf
		m.named[mf.Name()] = mf
	}
	return m, nil
}

// Language returns the language tag.
func (m *MetaCart) Language() string { return m.language }

// EngineType returns the engine type.
func (m *MetaCart) EngineType() string { return m.engineType }

// PhoneSet returns the configured phone table, or nil.
func (m *MetaCart) PhoneSet() PhoneSet { return m.phones }

// MetaFeature returns the meta feature with the given index.
func (m *MetaCart) MetaFeature(index int) (*MetaFeature, bool) {
	mf, ok := m.indexed[index]
	return mf, ok
}

// MetaFeatureByName returns the meta feature with the given name.
func (m *MetaCart) MetaFeatureByName(name string) (*MetaFeature, bool) {
	mf, ok := m.named[name]
	return mf, ok
}

// MetaFeatures returns all meta features ordered by index.
func (m *MetaCart) MetaFeatures() []*MetaFeature {
	out := slices.Collect(maps.Values(m.indexed))
	slices.SortFunc(out, func(a, b *MetaFeature) int { return a.Index() - b.Index() })
	return out
}

// AddFeature registers a feature. Its meta feature must exist. A feature
// with an index that is already registered replaces the earlier one; the
// replacement is logged and counted by Overwrites.
func (m *MetaCart) AddFeature(f Feature) error {
	if f.Index < 0 {
		return fmt.Errorf("%w: negative feature index %d", core.ErrInvalidArgument, f.Index)
	}
	if _, ok := m.indexed[f.MetaFeatureIndex]; !ok {
		return fmt.Errorf("%w: feature %d refers to unknown meta feature %d", core.ErrInvalidArgument, f.Index, f.MetaFeatureIndex)
	}
	if _, dup := m.features[f.Index]; dup {
		m.overwrites++
		m.logger.Warn("feature index redefined, keeping last definition",
			"feature", f.Index,
			"meta_feature", f.MetaFeatureIndex,
		)
	}
	f.Values = slices.Clone(f.Values)
	m.features[f.Index] = &f
	return nil
}

// Feature returns the feature with the given index.
func (m *MetaCart) Feature(index int) (*Feature, bool) {
	f, ok := m.features[index]
	return f, ok
}

// Features returns all features ordered by index.
func (m *MetaCart) Features() []*Feature {
	out := slices.Collect(maps.Values(m.features))
	slices.SortFunc(out, func(a, b *Feature) int { return a.Index - b.Index })
	return out
}

// NumFeatures returns the number of registered features.
func (m *MetaCart) NumFeatures() int { return len(m.features) }

// Overwrites returns how many features were replaced by a later definition
// with the same index.
func (m *MetaCart) Overwrites() int { return m.overwrites }

// TestFeature evaluates feature index against v.
func (m *MetaCart) TestFeature(index int, v Vector) (bool, error) {
	f, ok := m.features[index]
	if !ok {
		return false, fmt.Errorf("%w: feature %d", core.ErrNotFound, index)
	}
	return f.Test(v), nil
}
