package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
	"github.com/yndnr/tokclaim-go/internal/storage"
)

// TokenCounts defines allow-list sizes for benchmarking.
var TokenCounts = []int{1000, 10000, 100000}

// SmallTokenCounts for quick benchmarks.
var SmallTokenCounts = []int{1000, 10000}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newToken returns a unique normalized email-shaped token.
func newToken() domain.Token {
	return domain.Token(strings.ToLower(ulid.Make().String()) + "@bench.example")
}

// newTokens returns n unique tokens.
func newTokens(n int) []domain.Token {
	tokens := make([]domain.Token, n)
	for i := range tokens {
		tokens[i] = newToken()
	}
	return tokens
}

// writeAllowList seeds the file backend's allow-list directly, which is
// much faster than n calls to Add.
func writeAllowList(b *testing.B, dir string, tokens []domain.Token) {
	b.Helper()
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(dir, storage.DefaultAllowListFile), []byte(sb.String()), 0o600); err != nil {
		b.Fatal(err)
	}
}

// openStore opens a store on the named backend in a fresh directory,
// with tokens already on the allow-list.
func openStore(b *testing.B, backend string, tokens []domain.Token) *storage.Store {
	b.Helper()
	ctx := context.Background()
	dir := b.TempDir()

	if backend == storage.BackendFile {
		writeAllowList(b, dir, tokens)
	}

	cfg := storage.DefaultConfig(dir)
	cfg.Backend = backend
	be, err := storage.NewBackend(cfg, quietLogger)
	if err != nil {
		b.Fatalf("NewBackend(%s): %v", backend, err)
	}
	store, err := storage.Open(ctx, be, storage.WithLogger(quietLogger))
	if err != nil {
		b.Fatalf("Open: %v", err)
	}
	b.Cleanup(func() { store.Close() })

	if backend != storage.BackendFile {
		for _, t := range tokens {
			if _, err := store.Add(ctx, t); err != nil {
				b.Fatalf("Add: %v", err)
			}
		}
	}
	return store
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithTokenCounts runs a benchmark function with various allow-list sizes.
func runWithTokenCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("tokens_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}

// backends lists the persistent backends to compare.
var backends = []string{storage.BackendFile, storage.BackendBadger}
