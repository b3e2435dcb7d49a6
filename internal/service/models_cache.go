package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/repository"
)

// CatalogService keeps the loaded price catalog in memory. Every catalog
// change goes through the store first; the snapshot is swapped only after
// the store accepted it.
type CatalogService struct {
	store *repository.CatalogStore

	mu       sync.RWMutex
	models   []domain.Model
	index    map[string]int
	loadedAt time.Time
}

func NewCatalogService(store *repository.CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Reload reads the catalog file into the snapshot.
func (c *CatalogService) Reload(ctx context.Context) error {
	entries, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	c.set(entries)
	return nil
}

func (c *CatalogService) set(entries []domain.ModelPriceEntry) {
	models := make([]domain.Model, len(entries))
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		models[i] = domain.NewModel(e)
		index[normalizeName(e.Name)] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = models
	c.index = index
	c.loadedAt = time.Now()
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Models returns the catalog in file order.
func (c *CatalogService) Models() []domain.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Model, len(c.models))
	copy(out, c.models)
	return out
}

func (c *CatalogService) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.models))
	for i, m := range c.models {
		names[i] = m.Name()
	}
	return names
}

// Lookup finds a model by name, ignoring case and surrounding spaces.
func (c *CatalogService) Lookup(name string) (domain.Model, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[normalizeName(name)]
	if !ok {
		return domain.Model{}, fmt.Errorf("%w: %q", domain.ErrUnknownModel, name)
	}
	return c.models[i], nil
}

// ModelAt returns the i-th model of the current snapshot.
func (c *CatalogService) ModelAt(i int) (domain.Model, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.models) {
		return domain.Model{}, fmt.Errorf("%w: model #%d", domain.ErrUnknownModel, i)
	}
	return c.models[i], nil
}

func (c *CatalogService) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Replace stores a new catalog document named filename and swaps the
// snapshot. A rejected document changes neither.
func (c *CatalogService) Replace(ctx context.Context, filename string, data []byte) ([]domain.Model, error) {
	entries, err := c.store.ReplaceFile(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	c.set(entries)
	return c.Models(), nil
}

// File returns the stored catalog bytes and the file name to show them as.
func (c *CatalogService) File(ctx context.Context) ([]byte, string, error) {
	data, err := c.store.Raw(ctx)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(c.store.Path()), nil
}
