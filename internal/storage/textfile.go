package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
)

// Default file names inside the data directory.
const (
	DefaultAllowListFile = "allowlist.txt"
	DefaultClaimedFile   = "claimed.txt"
)

// FileConfig configures the text file backend.
type FileConfig struct {
	// Dir holds both files. Created if missing.
	Dir string

	// AllowListFile is rewritten atomically on every allow-list change.
	AllowListFile string

	// ClaimedFile is append-only; one line per successful claim.
	ClaimedFile string
}

// FileBackend persists each set as a text file with one token per line.
type FileBackend struct {
	allowPath   string
	claimedPath string
	claimed     *os.File
	logger      *slog.Logger
}

// NewFileBackend creates the data directory and opens the claimed log.
func NewFileBackend(cfg FileConfig, logger *slog.Logger) (*FileBackend, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("file backend: dir is required")
	}
	if cfg.AllowListFile == "" {
		cfg.AllowListFile = DefaultAllowListFile
	}
	if cfg.ClaimedFile == "" {
		cfg.ClaimedFile = DefaultClaimedFile
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("file backend: create dir: %w", err)
	}

	b := &FileBackend{
		allowPath:   filepath.Join(cfg.Dir, cfg.AllowListFile),
		claimedPath: filepath.Join(cfg.Dir, cfg.ClaimedFile),
		logger:      logger,
	}

	f, err := os.OpenFile(b.claimedPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("file backend: open claimed log: %w", err)
	}
	b.claimed = f

	return b, nil
}

// Name implements Backend.
func (b *FileBackend) Name() string { return "file" }

// Load implements Backend. Missing files load as empty sets.
func (b *FileBackend) Load(ctx context.Context) (*State, error) {
	allowed, err := b.readTokens(b.allowPath)
	if err != nil {
		return nil, err
	}
	claimed, err := b.readTokens(b.claimedPath)
	if err != nil {
		return nil, err
	}
	return &State{Allowed: allowed, Claimed: claimed}, nil
}

// Apply implements Backend.
func (b *FileBackend) Apply(ctx context.Context, m Mutation) error {
	switch m.Op {
	case domain.OpAdd, domain.OpRemove:
		return b.writeAllowList(m.AllowList)
	case domain.OpClaim:
		return b.appendClaim(m.Token)
	default:
		return fmt.Errorf("file backend: unsupported operation %q", m.Op)
	}
}

// Close implements Backend.
func (b *FileBackend) Close() error {
	if err := b.claimed.Sync(); err != nil {
		b.claimed.Close()
		return fmt.Errorf("file backend: sync claimed log: %w", err)
	}
	return b.claimed.Close()
}

// readTokens normalizes every line of path, skipping blanks, invalid
// lines and duplicates.
func (b *FileBackend) readTokens(path string) ([]domain.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("file backend: open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var (
		tokens []domain.Token
		seen   = make(map[domain.Token]struct{})
		lineNo int
	)

	// Lines have no length bound here; over-long ones fail Normalize and
	// are skipped like any other invalid line.
	r := bufio.NewReader(f)
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("file backend: read %s: %w", filepath.Base(path), readErr)
		}
		if line == "" && readErr != nil {
			break
		}
		lineNo++
		if strings.TrimSpace(line) == "" {
			if readErr != nil {
				break
			}
			continue
		}

		token, err := domain.Normalize(line)
		switch {
		case err != nil:
			b.logger.Warn("skipping invalid token line",
				"file", filepath.Base(path),
				"line", lineNo,
				"error", err)
		case !seenBefore(seen, token):
			tokens = append(tokens, token)
		}
		if readErr != nil {
			break
		}
	}

	return tokens, nil
}

func seenBefore(seen map[domain.Token]struct{}, token domain.Token) bool {
	if _, ok := seen[token]; ok {
		return true
	}
	seen[token] = struct{}{}
	return false
}

// writeAllowList replaces the allow-list file atomically.
func (b *FileBackend) writeAllowList(tokens []domain.Token) error {
	dir := filepath.Dir(b.allowPath)

	tmp, err := os.CreateTemp(dir, filepath.Base(b.allowPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("file backend: create temp: %w", err)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, t := range tokens {
		w.WriteString(string(t))
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("file backend: write allow-list: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("file backend: sync allow-list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("file backend: close allow-list: %w", err)
	}

	if err := os.Rename(tmpPath, b.allowPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("file backend: rename allow-list: %w", err)
	}

	return syncDir(dir)
}

// appendClaim appends token to the claimed log and fsyncs it. A failed
// append is truncated back to the previous length.
func (b *FileBackend) appendClaim(token domain.Token) error {
	info, err := b.claimed.Stat()
	if err != nil {
		return fmt.Errorf("file backend: stat claimed log: %w", err)
	}
	size := info.Size()

	line := string(token) + "\n"
	if size > 0 {
		// Hand-edited files may lack a trailing newline.
		last := make([]byte, 1)
		if _, err := b.claimed.ReadAt(last, size-1); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("file backend: read claimed log: %w", err)
		}
		if last[0] != '\n' {
			line = "\n" + line
		}
	}

	if _, err := b.claimed.WriteString(line); err != nil {
		b.rollbackClaimed(size)
		return fmt.Errorf("file backend: append claim: %w", err)
	}
	if err := b.claimed.Sync(); err != nil {
		b.rollbackClaimed(size)
		return fmt.Errorf("file backend: sync claimed log: %w", err)
	}

	return nil
}

func (b *FileBackend) rollbackClaimed(size int64) {
	if err := b.claimed.Truncate(size); err != nil {
		b.logger.Error("truncate claimed log failed", "size", size, "error", err)
		return
	}
	if err := b.claimed.Sync(); err != nil {
		b.logger.Error("sync truncated claimed log failed", "error", err)
	}
}

// syncDir fsyncs a directory so a rename within it is durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("file backend: open dir: %w", err)
	}
	defer d.Close()

	if err := d.Sync(); err != nil {
		return fmt.Errorf("file backend: sync dir: %w", err)
	}
	return nil
}
