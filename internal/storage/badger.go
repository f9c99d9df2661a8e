package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
)

// Key prefixes for the two sets.
var (
	allowPrefix = []byte("allow/")
	claimPrefix = []byte("claim/")
)

// BadgerConfig configures the Badger backend.
type BadgerConfig struct {
	// Dir is the Badger data directory.
	Dir string

	// GCInterval is the interval between value log GC runs.
	GCInterval time.Duration

	// GCThreshold is the discard ratio passed to RunValueLogGC (0.0-1.0).
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	CacheSize int64

	// ValueLogFileSize is the maximum size of a value log file.
	ValueLogFileSize int64

	// EncryptionKey enables at-rest encryption when set (16, 24 or 32 bytes).
	EncryptionKey []byte
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:              dir,
		GCInterval:       10 * time.Minute,
		GCThreshold:      0.5,
		CacheSize:        64 << 20, // 64MB
		ValueLogFileSize: 64 << 20,
	}
}

// BadgerBackend persists both sets as keys in an embedded Badger DB.
//
// Allow-list entries live under "allow/<token>", claims under
// "claim/<token>" with the claim time (Unix ms) as value. Writes are
// synced before Apply returns.
type BadgerBackend struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger *slog.Logger

	lastGCTime atomic.Int64 // Unix milliseconds
	gcRuns     atomic.Uint64

	metricsLSMSize      prometheus.Gauge
	metricsValueLogSize prometheus.Gauge
	metricsLastGCTime   prometheus.Gauge

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgerBackend opens the Badger DB in cfg.Dir and starts the GC loop.
func NewBadgerBackend(cfg BadgerConfig, logger *slog.Logger) (*BadgerBackend, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCThreshold <= 0 || cfg.GCThreshold >= 1 {
		cfg.GCThreshold = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = true
	if cfg.CacheSize > 0 {
		opts.BlockCacheSize = cfg.CacheSize
	}
	if cfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = cfg.ValueLogFileSize
	}
	if len(cfg.EncryptionKey) > 0 {
		opts.EncryptionKey = cfg.EncryptionKey
		opts.IndexCacheSize = 16 << 20
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	b := &BadgerBackend{
		db:     db,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go b.gcLoop()

	logger.Info("badger backend started",
		"dir", cfg.Dir,
		"encrypted", len(cfg.EncryptionKey) > 0,
		"gc_interval", cfg.GCInterval)

	return b, nil
}

// Name implements Backend.
func (b *BadgerBackend) Name() string { return "badger" }

// Load implements Backend.
func (b *BadgerBackend) Load(ctx context.Context) (*State, error) {
	state := &State{}

	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		if state.Allowed, err = b.scan(txn, allowPrefix); err != nil {
			return err
		}
		state.Claimed, err = b.scan(txn, claimPrefix)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("badger: load: %w", err)
	}

	return state, nil
}

func (b *BadgerBackend) scan(txn *badger.Txn, prefix []byte) ([]domain.Token, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var tokens []domain.Token
	for it.Rewind(); it.Valid(); it.Next() {
		raw := bytes.TrimPrefix(it.Item().Key(), prefix)
		token, err := domain.Normalize(string(raw))
		if err != nil {
			b.logger.Warn("skipping invalid token key", "key", string(it.Item().Key()), "error", err)
			continue
		}
		if string(raw) != string(token) {
			// Keys are written normalized; anything else was written by hand.
			b.logger.Warn("skipping non-normalized token key", "key", string(it.Item().Key()))
			continue
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Apply implements Backend.
func (b *BadgerBackend) Apply(ctx context.Context, m Mutation) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		switch m.Op {
		case domain.OpAdd:
			return txn.Set(tokenKey(allowPrefix, m.Token), nil)
		case domain.OpRemove:
			return txn.Delete(tokenKey(allowPrefix, m.Token))
		case domain.OpClaim:
			var ts [8]byte
			binary.BigEndian.PutUint64(ts[:], uint64(time.Now().UnixMilli()))
			return txn.Set(tokenKey(claimPrefix, m.Token), ts[:])
		default:
			return fmt.Errorf("unsupported operation %q", m.Op)
		}
	})
	if err != nil {
		return fmt.Errorf("badger: apply %s: %w", m.Op, err)
	}
	return nil
}

// GC runs value log GC until nothing more can be rewritten.
func (b *BadgerBackend) GC() error {
	start := time.Now()
	runs := 0

	for {
		err := b.db.RunValueLogGC(b.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return fmt.Errorf("badger: gc: %w", err)
		}
		runs++
	}

	b.lastGCTime.Store(time.Now().UnixMilli())
	b.gcRuns.Add(uint64(runs))

	b.logger.Debug("badger gc completed", "rewrites", runs, "elapsed", time.Since(start))
	return nil
}

// Close stops the GC loop and closes the DB.
func (b *BadgerBackend) Close() error {
	close(b.stopCh)
	<-b.doneCh

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}
	b.logger.Info("badger backend closed")
	return nil
}

// RegisterMetrics registers Badger size gauges with registry.
func (b *BadgerBackend) RegisterMetrics(registry prometheus.Registerer) *BadgerBackend {
	b.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tokclaim",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	})
	b.metricsValueLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tokclaim",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	})
	b.metricsLastGCTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tokclaim",
		Subsystem: "badger",
		Name:      "last_gc_timestamp_seconds",
		Help:      "Unix timestamp of the last Badger GC run",
	})

	registry.MustRegister(b.metricsLSMSize, b.metricsValueLogSize, b.metricsLastGCTime)
	b.updateMetrics()

	return b
}

func (b *BadgerBackend) updateMetrics() {
	if b.metricsLSMSize == nil {
		return
	}
	lsm, vlog := b.db.Size()
	b.metricsLSMSize.Set(float64(lsm))
	b.metricsValueLogSize.Set(float64(vlog))
	if ts := b.lastGCTime.Load(); ts > 0 {
		b.metricsLastGCTime.Set(float64(ts) / 1000.0)
	}
}

// gcLoop runs periodic value log GC and refreshes size gauges.
func (b *BadgerBackend) gcLoop() {
	defer close(b.doneCh)

	ticker := time.NewTicker(b.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := b.GC(); err != nil {
				b.logger.Error("auto gc failed", "error", err)
			}
			b.updateMetrics()
		case <-b.stopCh:
			return
		}
	}
}

func tokenKey(prefix []byte, token domain.Token) []byte {
	key := make([]byte, 0, len(prefix)+len(token))
	key = append(key, prefix...)
	return append(key, string(token)...)
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
