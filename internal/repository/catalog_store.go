package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/set-night/ptucalc/internal/domain"
)

// CatalogStore is the price catalog file. Reads are whole-file; writes
// replace the file atomically.
type CatalogStore struct {
	path  string
	codec Codec

	mu sync.Mutex
}

func NewCatalogStore(path string) (*CatalogStore, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	return &CatalogStore{path: path, codec: codec}, nil
}

func (s *CatalogStore) Path() string {
	return s.path
}

// Raw returns the catalog file bytes as stored.
func (s *CatalogStore) Raw(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return data, nil
}

func (s *CatalogStore) Load(ctx context.Context) ([]domain.ModelPriceEntry, error) {
	data, err := s.Raw(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := ParseCatalog(s.codec, data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *CatalogStore) Encode(entries []domain.ModelPriceEntry) ([]byte, error) {
	return s.codec.Encode(entries)
}

// Bootstrap writes defaults (a JSON catalog) to the store path when the file
// does not exist yet, converting to the store's format. It reports whether
// the file was created.
func (s *CatalogStore) Bootstrap(ctx context.Context, defaults []byte) (bool, error) {
	if _, err := os.Stat(s.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat catalog: %w", err)
	}

	data, err := Transcode(defaults, jsonCodec{}, s.codec)
	if err != nil {
		return false, fmt.Errorf("default catalog: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create catalog dir: %w", err)
		}
	}
	if _, err := s.Replace(ctx, data); err != nil {
		return false, err
	}
	slog.Info("default catalog written", "path", s.path)
	return true, nil
}

// Replace validates data as a whole catalog and swaps it in. On any failure
// the current file is left byte-for-byte untouched.
func (s *CatalogStore) Replace(ctx context.Context, data []byte) ([]domain.ModelPriceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := ParseCatalog(s.codec, data); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".catalog-*"+s.codec.Ext())
	if err != nil {
		return nil, fmt.Errorf("create temp catalog: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("sync temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp catalog: %w", err)
	}

	written, err := os.ReadFile(tmpName)
	if err != nil {
		return nil, fmt.Errorf("reread temp catalog: %w", err)
	}
	entries, err := ParseCatalog(s.codec, written)
	if err != nil {
		return nil, err
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return nil, fmt.Errorf("swap catalog: %w", err)
	}
	return entries, nil
}

// ReplaceFile is Replace for a document named filename, converted to the
// store's format when the extensions differ.
func (s *CatalogStore) ReplaceFile(ctx context.Context, filename string, data []byte) ([]domain.ModelPriceEntry, error) {
	from, err := CodecFor(filename)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(from.Ext(), s.codec.Ext()) {
		data, err = Transcode(data, from, s.codec)
		if err != nil {
			return nil, err
		}
	}
	return s.Replace(ctx, data)
}

// Transcode parses a validated catalog with one codec and writes it with
// another.
func Transcode(data []byte, from, to Codec) ([]byte, error) {
	entries, err := ParseCatalog(from, data)
	if err != nil {
		return nil, err
	}
	return to.Encode(entries)
}
