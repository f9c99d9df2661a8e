package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
)

func testConfig(t *testing.T, backend string) Config {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	cfg.Backend = backend
	cfg.Badger.GCInterval = time.Hour
	return cfg
}

func openConfigured(t *testing.T, cfg Config) *Store {
	t.Helper()
	backend, err := NewBackend(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewBackend(%s) error = %v", cfg.Backend, err)
	}
	s, err := Open(context.Background(), backend, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestStore_DurabilityRoundTrip(t *testing.T) {
	for _, name := range []string{BackendFile, BackendBadger} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t, name)
			ctx := context.Background()

			s := openConfigured(t, cfg)
			for _, raw := range []string{"a@x.io", "b@x.io", "c@x.io"} {
				if _, err := s.Add(ctx, domain.MustNormalize(raw)); err != nil {
					t.Fatalf("Add(%s) error = %v", raw, err)
				}
			}
			if r, err := s.TryClaim(ctx, domain.MustNormalize("a@x.io")); err != nil || r != domain.Claimed {
				t.Fatalf("TryClaim() = %v, %v", r, err)
			}
			if _, err := s.Remove(ctx, domain.MustNormalize("a@x.io")); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if _, err := s.Remove(ctx, domain.MustNormalize("c@x.io")); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			reopened := openConfigured(t, cfg)
			defer reopened.Close()

			if got := reopened.List(domain.SetAllowed); len(got) != 1 || got[0] != "b@x.io" {
				t.Errorf("allowed after restart = %v, want [b@x.io]", got)
			}
			if got := reopened.List(domain.SetClaimed); len(got) != 1 || got[0] != "a@x.io" {
				t.Errorf("claimed after restart = %v, want [a@x.io]", got)
			}
			if r, _ := reopened.TryClaim(ctx, domain.MustNormalize("a@x.io")); r != domain.AlreadyClaimed {
				t.Errorf("TryClaim() after restart = %v, want already_claimed", r)
			}
			if r, _ := reopened.TryClaim(ctx, domain.MustNormalize("b@x.io")); r != domain.Claimed {
				t.Errorf("TryClaim(b) after restart = %v, want claimed", r)
			}
			if got := reopened.Stats().Backend; got != name {
				t.Errorf("Stats().Backend = %s, want %s", got, name)
			}
		})
	}
}

func TestBadgerBackend_Encrypted(t *testing.T) {
	cfg := testConfig(t, BackendBadger)
	cfg.Badger.EncryptionKey = []byte("0123456789abcdef0123456789abcdef")
	ctx := context.Background()

	s := openConfigured(t, cfg)
	s.Add(ctx, domain.MustNormalize("secret@x.io"))
	s.Close()

	reopened := openConfigured(t, cfg)
	defer reopened.Close()
	if !reopened.Contains(domain.SetAllowed, domain.MustNormalize("secret@x.io")) {
		t.Error("encrypted badger store lost the allow-list entry")
	}
}

func TestBadgerBackend_GC(t *testing.T) {
	cfg := testConfig(t, BackendBadger)
	b, err := NewBadgerBackend(cfg.Badger, discardLogger())
	if err != nil {
		t.Fatalf("NewBadgerBackend() error = %v", err)
	}
	defer b.Close()

	if err := b.GC(); err != nil {
		t.Errorf("GC() on empty db error = %v", err)
	}
}

func TestNewBackend_Errors(t *testing.T) {
	if _, err := NewBackend(Config{Backend: BackendFile}, nil); err == nil {
		t.Error("NewBackend() without data dir should fail")
	}
	if _, err := NewBackend(Config{Backend: "sqlite", DataDir: t.TempDir()}, nil); err == nil {
		t.Error("NewBackend() with unknown backend should fail")
	}
}

func TestStore_OverlongTokenRejectedAndReopens(t *testing.T) {
	for _, name := range []string{BackendFile, BackendBadger} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t, name)
			ctx := context.Background()

			s := openConfigured(t, cfg)
			long := domain.Token(strings.Repeat("\u2C65", 30000))
			if _, err := s.Add(ctx, long); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("Add(long) error = %v, want ErrInvalidToken", err)
			}
			if _, err := domain.Normalize(strings.Repeat("\u023A", 30000)); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("Normalize(long) error = %v, want ErrInvalidToken", err)
			}
			if _, err := s.Add(ctx, domain.MustNormalize("ok@x.io")); err != nil {
				t.Fatalf("Add(ok) error = %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			reopened := openConfigured(t, cfg)
			defer reopened.Close()
			if got := reopened.List(domain.SetAllowed); len(got) != 1 || got[0] != "ok@x.io" {
				t.Errorf("allowed after reopen = %v, want [ok@x.io]", got)
			}
		})
	}
}
