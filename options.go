package cartkit

import (
	"log/slog"

	"github.com/hupe1980/cartkit/cart"
	"github.com/hupe1980/cartkit/codec"
	"github.com/hupe1980/cartkit/feature"
	"github.com/hupe1980/cartkit/pack"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	compression      pack.Compression
	loadConcurrency  int
	ioLimit          int64
	memoryLimit      int64
	phoneSet         feature.PhoneSet
	setType          cart.SetType
	overrideSetType  bool
	codec            codec.Codec
}

// Option configures Open, New and Save.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
//	logger := cartkit.NewJSONLogger(slog.LevelDebug)
//	model, _ := cartkit.Open(ctx, store, cartkit.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
//	metrics := &cartkit.BasicMetricsCollector{}
//	model, _ := cartkit.Open(ctx, store, cartkit.WithMetricsCollector(metrics))
//	fmt.Println(metrics.GetStats().LoadCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithCompression selects how Save packs trees. Default: pack.CompressionZstd.
func WithCompression(c pack.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLoadConcurrency bounds how many trees Open decodes at once.
// Default: 4.
func WithLoadConcurrency(n int) Option {
	return func(o *options) {
		o.loadConcurrency = n
	}
}

// WithIOLimit caps the read throughput of Open in bytes per second.
// Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithMemoryLimit caps the stored bytes Open holds in flight across all
// concurrent tree loads. A single tree larger than the limit fails to load.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithPhoneSet sets the phone table used to resolve phone-valued features in
// question files.
func WithPhoneSet(p feature.PhoneSet) Option {
	return func(o *options) {
		o.phoneSet = p
	}
}

// WithSetType forces the leaf encoding of every tree the model loads or
// adds. Without it, leaves keep the encoding they were stored with.
func WithSetType(st cart.SetType) Option {
	return func(o *options) {
		o.setType = st
		o.overrideSetType = true
	}
}

// WithCodec selects the manifest codec. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		compression:      pack.CompressionZstd,
		loadConcurrency:  4,
		codec:            codec.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
