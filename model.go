package cartkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cartkit/blobstore"
	"github.com/hupe1980/cartkit/cart"
	"github.com/hupe1980/cartkit/feature"
	"github.com/hupe1980/cartkit/internal/resource"
	"github.com/hupe1980/cartkit/pack"
)

// Names of the files making up a model in a blob store.
const (
	SchemaFile    = "schema.yaml"
	QuestionsFile = "questions.txt"
	FeaturesFile  = "features.bin"
	ManifestFile  = "manifest.json"
	TreeDir       = "trees/"
	TreeExt       = ".cart"
)

const (
	// readChunk is the unit in which tree reads are admitted by the IO limit.
	readChunk = 256 << 10

	maxTreeBytes = 1 << 30
)

// Manifest lists the trees of a saved model. Open uses it instead of listing
// the store when present.
type Manifest struct {
	Language   string          `json:"language"`
	EngineType string          `json:"engine_type"`
	Codec      string          `json:"codec"`
	Trees      []ManifestEntry `json:"trees"`
}

// ManifestEntry describes one stored tree.
type ManifestEntry struct {
	Name        string `json:"name"`
	Nodes       int    `json:"nodes"`
	Leaves      int    `json:"leaves"`
	Units       int    `json:"units"`
	Bytes       int64  `json:"bytes"`
	Compression string `json:"compression"`
}

// Model is one voice: a MetaCart and the named CART trees asked over it.
//
// A Model returned by Open is safe for concurrent Classify calls. AddTree and
// RemoveTree may run concurrently with lookups, but mutating a tree obtained
// from Tree is not synchronized.
type Model struct {
	meta *feature.MetaCart
	opts options

	mu    sync.RWMutex
	trees map[string]*cart.Tree
}

// New creates an empty model over meta.
func New(meta *feature.MetaCart, optFns ...Option) (*Model, error) {
	if meta == nil {
		return nil, fmt.Errorf("%w: nil meta cart", ErrInvalidArgument)
	}
	return &Model{
		meta:  meta,
		opts:  applyOptions(optFns),
		trees: make(map[string]*cart.Tree),
	}, nil
}

// Open loads a model from store: the schema, the features (question file
// preferred over the binary table) and every tree, decoded concurrently.
// Unit sets of internal nodes are propagated before Open returns.
func Open(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Model, error) {
	o := applyOptions(optFns)

	meta, err := loadMeta(ctx, store, o)
	if err != nil {
		return nil, translateError(err)
	}

	m := &Model{
		meta:  meta,
		opts:  o,
		trees: make(map[string]*cart.Tree),
	}

	names, err := m.treeNames(ctx, store)
	if err != nil {
		return nil, translateError(err)
	}

	ctrl := resource.NewController(resource.Config{
		MaxConcurrentLoads: int64(o.loadConcurrency),
		MemoryLimitBytes:   o.memoryLimit,
		IOLimitBytesPerSec: o.ioLimit,
	})

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			if err := ctrl.AcquireLoad(gctx); err != nil {
				return err
			}
			defer ctrl.ReleaseLoad()

			t, err := m.loadTree(gctx, store, ctrl, name)
			if err != nil {
				return treeError("load", name, err)
			}
			m.mu.Lock()
			m.trees[name] = t
			m.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "model opened",
		"language", meta.Language(),
		"engine_type", meta.EngineType(),
		"features", meta.NumFeatures(),
		"trees", len(names),
	)
	return m, nil
}

func loadMeta(ctx context.Context, store blobstore.BlobStore, o options) (*feature.MetaCart, error) {
	data, err := blobstore.ReadFile(ctx, store, SchemaFile)
	if err != nil {
		return nil, err
	}
	meta, err := feature.LoadSchema(bytes.NewReader(data),
		feature.WithPhoneSet(o.phoneSet),
		feature.WithLogger(o.logger.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", SchemaFile, err)
	}

	data, err = blobstore.ReadFile(ctx, store, QuestionsFile)
	switch {
	case err == nil:
		if err := meta.LoadQuestions(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%s: %w", QuestionsFile, err)
		}
	case errors.Is(err, ErrNotFound):
		data, err = blobstore.ReadFile(ctx, store, FeaturesFile)
		if err != nil {
			return nil, err
		}
		if err := meta.ReadFeatures(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%s: %w", FeaturesFile, err)
		}
	default:
		return nil, err
	}

	if n := meta.Overwrites(); n > 0 {
		o.logger.WarnContext(ctx, "duplicate feature indices", "overwrites", n)
	}
	return meta, nil
}

func (m *Model) treeNames(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	data, err := blobstore.ReadFile(ctx, store, ManifestFile)
	if err == nil {
		var man Manifest
		if err := m.opts.codec.Unmarshal(data, &man); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFormat, ManifestFile, err)
		}
		names := make([]string, 0, len(man.Trees))
		for _, e := range man.Trees {
			if !validTreeName(e.Name) {
				return nil, fmt.Errorf("%w: %s: invalid tree name %q", ErrFormat, ManifestFile, e.Name)
			}
			names = append(names, e.Name)
		}
		return names, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	files, err := store.List(ctx, TreeDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, f := range files {
		name := strings.TrimPrefix(f, TreeDir)
		if !strings.HasSuffix(name, TreeExt) {
			continue
		}
		if name = strings.TrimSuffix(name, TreeExt); !validTreeName(name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func treeFile(name string) string { return TreeDir + name + TreeExt }

// validTreeName reports whether name maps to a single file below TreeDir.
func validTreeName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`)
}

func (m *Model) loadTree(ctx context.Context, store blobstore.BlobStore, ctrl *resource.Controller, name string) (t *cart.Tree, err error) {
	start := time.Now()
	var size int64
	defer func() {
		m.opts.metricsCollector.RecordLoad(name, size, time.Since(start), err)
		nodes := 0
		if t != nil {
			nodes = t.NodeCount()
		}
		m.opts.logger.LogLoad(ctx, name, nodes, size, err)
	}()

	b, err := store.Open(ctx, treeFile(name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	size = b.Size()
	if size < 0 || size > maxTreeBytes {
		return nil, fmt.Errorf("%w: tree file of %d bytes", ErrInvalidArgument, size)
	}
	if err := ctrl.AcquireMemory(ctx, size); err != nil {
		return nil, err
	}
	defer ctrl.ReleaseMemory(size)

	data, err := readThrottled(ctx, ctrl, b)
	if err != nil {
		return nil, err
	}
	raw, err := pack.Decode(data)
	if err != nil {
		return nil, err
	}
	t, err = cart.Load(bytes.NewReader(raw), m.meta)
	if err != nil {
		return nil, err
	}
	if m.opts.overrideSetType {
		setLeafType(t, m.opts.setType)
	}
	if err := t.Propagate(); err != nil {
		return nil, err
	}
	return t, nil
}

// readThrottled reads b in chunks, each admitted by the controller's IO limit.
func readThrottled(ctx context.Context, ctrl *resource.Controller, b blobstore.Blob) ([]byte, error) {
	buf := make([]byte, b.Size())
	off := 0
	for off < len(buf) {
		n := min(readChunk, len(buf)-off)
		if err := ctrl.AcquireIO(ctx, n); err != nil {
			return nil, err
		}
		got, err := b.ReadAt(ctx, buf[off:off+n], int64(off))
		off += got
		if err != nil {
			if errors.Is(err, io.EOF) && off == len(buf) {
				break
			}
			return nil, err
		}
		if got == 0 {
			return nil, io.ErrUnexpectedEOF
		}
	}
	return buf, nil
}

func setLeafType(t *cart.Tree, st cart.SetType) {
	for _, leaf := range t.Leaves() {
		leaf.SetType = st
	}
}

// Meta returns the model's MetaCart.
func (m *Model) Meta() *feature.MetaCart { return m.meta }

// Names returns the tree names in ascending order.
func (m *Model) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.trees))
	for name := range m.trees {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Tree returns the named tree.
func (m *Model) Tree(name string) (*cart.Tree, error) {
	m.mu.RLock()
	t, ok := m.trees[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tree %q: %w", name, ErrNotFound)
	}
	return t, nil
}

// AddTree validates t, propagates its unit sets and stores it under name,
// replacing any tree of that name. The tree must be built over the model's
// MetaCart; a tree without one adopts it.
func (m *Model) AddTree(name string, t *cart.Tree) error {
	if !validTreeName(name) {
		return fmt.Errorf("%w: tree name %q", ErrInvalidArgument, name)
	}
	if t == nil || t.Root == nil {
		return fmt.Errorf("%w: empty tree", ErrInvalidArgument)
	}
	if t.Meta == nil {
		t.Meta = m.meta
	} else if t.Meta != m.meta {
		return fmt.Errorf("%w: tree %q uses a different meta cart", ErrInvalidArgument, name)
	}
	if err := t.Validate(); err != nil {
		return treeError("add", name, err)
	}
	if m.opts.overrideSetType {
		setLeafType(t, m.opts.setType)
	}
	if err := t.Propagate(); err != nil {
		return treeError("add", name, err)
	}

	m.mu.Lock()
	m.trees[name] = t
	m.mu.Unlock()
	return nil
}

// RemoveTree drops the named tree and reports whether it existed.
func (m *Model) RemoveTree(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.trees[name]
	delete(m.trees, name)
	return ok
}

// Classify routes v through the named tree and returns the leaf it reaches.
func (m *Model) Classify(ctx context.Context, name string, v feature.Vector) (leaf *cart.Node, err error) {
	start := time.Now()
	defer func() {
		m.opts.metricsCollector.RecordClassify(name, time.Since(start), err)
		idx := -1
		if leaf != nil {
			idx = leaf.Index
		}
		m.opts.logger.LogClassify(ctx, name, idx, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := m.Tree(name)
	if err != nil {
		return nil, err
	}
	leaf, err = t.Test(v)
	if err != nil {
		return nil, treeError("classify", name, err)
	}
	return leaf, nil
}

// Save writes the schema, the question file, every tree packed with the
// configured compression, and finally the manifest.
func (m *Model) Save(ctx context.Context, store blobstore.BlobStore) error {
	var buf bytes.Buffer
	if err := m.meta.WriteSchema(&buf); err != nil {
		return err
	}
	if err := store.Put(ctx, SchemaFile, buf.Bytes()); err != nil {
		return translateError(err)
	}

	buf.Reset()
	if err := m.meta.SaveQuestions(&buf); err != nil {
		return err
	}
	if err := store.Put(ctx, QuestionsFile, buf.Bytes()); err != nil {
		return translateError(err)
	}

	man := Manifest{
		Language:   m.meta.Language(),
		EngineType: m.meta.EngineType(),
		Codec:      m.opts.codec.Name(),
	}
	for _, name := range m.Names() {
		t, err := m.Tree(name)
		if err != nil {
			return err
		}
		n, err := m.saveTree(ctx, store, name, t)
		if err != nil {
			return treeError("save", name, err)
		}
		entry := ManifestEntry{
			Name:        name,
			Nodes:       t.NodeCount(),
			Leaves:      len(t.Leaves()),
			Bytes:       n,
			Compression: m.opts.compression.String(),
		}
		if t.Root.Units != nil {
			entry.Units = t.Root.Units.Len()
		}
		man.Trees = append(man.Trees, entry)
	}

	data, err := m.opts.codec.Marshal(man)
	if err != nil {
		return err
	}
	return translateError(store.Put(ctx, ManifestFile, data))
}

func (m *Model) saveTree(ctx context.Context, store blobstore.BlobStore, name string, t *cart.Tree) (n int64, err error) {
	start := time.Now()
	defer func() {
		m.opts.metricsCollector.RecordSave(name, n, time.Since(start), err)
		m.opts.logger.LogSave(ctx, name, n, err)
	}()

	raw, err := t.MarshalBinary()
	if err != nil {
		return 0, err
	}
	data, err := pack.Encode(raw, m.opts.compression)
	if err != nil {
		return 0, err
	}
	if err := store.Put(ctx, treeFile(name), data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}
