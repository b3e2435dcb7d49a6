package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/repository"
)

const testCatalog = `[
  {
    "model name": "google-gemini-1.5-pro-002",
    "PTU minumum deployment unit": 1,
    "PTU price of monthly commitment": 2700,
    "PTU price of yearly commitment": 2000,
    "PTU monthly discount": 0,
    "PTU yearly discount": 0,
    "input token price per 1k": 0.00125,
    "output token price per 1k": 0.005,
    "output token multiple ratio": 3,
    "chars per GSU": 800
  },
  {
    "model name": "azure-gpt-4o",
    "PTU minumum deployment unit": 15,
    "PTU price of monthly commitment": 260,
    "PTU price of yearly commitment": 221,
    "PTU monthly discount": 0,
    "PTU yearly discount": 0,
    "input token price per 1k": 0.0025,
    "output token price per 1k": 0.01,
    "cached input token price per 1k": 0.00125
  },
  {
    "model name": "acme-llm",
    "PTU minumum deployment unit": 10,
    "PTU price of monthly commitment": 100,
    "PTU price of yearly commitment": 80,
    "PTU monthly discount": 0,
    "PTU yearly discount": 0,
    "input token price per 1k": 0.001,
    "output token price per 1k": 0.002
  }
]`

func newTestCatalog(t *testing.T) (*CatalogService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model_config.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	store, err := repository.NewCatalogStore(path)
	require.NoError(t, err)
	catalog := NewCatalogService(store)
	require.NoError(t, catalog.Reload(context.Background()))
	return catalog, path
}

func TestCatalogLookup(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	m, err := catalog.Lookup("  AZURE-GPT-4o ")
	require.NoError(t, err)
	assert.Equal(t, "azure-gpt-4o", m.Name())
	assert.Equal(t, domain.FamilyAzure, m.Family)

	m, err = catalog.Lookup("google-gemini-1.5-pro-002")
	require.NoError(t, err)
	assert.Equal(t, domain.FamilyGemini, m.Family)

	m, err = catalog.Lookup("acme-llm")
	require.NoError(t, err)
	assert.Equal(t, domain.FamilyManual, m.Family)

	_, err = catalog.Lookup("azure-gpt-5")
	assert.ErrorIs(t, err, domain.ErrUnknownModel)
}

func TestCatalogOrderAndIndex(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	assert.Equal(t, []string{"google-gemini-1.5-pro-002", "azure-gpt-4o", "acme-llm"}, catalog.Names())

	m, err := catalog.ModelAt(1)
	require.NoError(t, err)
	assert.Equal(t, "azure-gpt-4o", m.Name())

	_, err = catalog.ModelAt(3)
	assert.ErrorIs(t, err, domain.ErrUnknownModel)
	_, err = catalog.ModelAt(-1)
	assert.ErrorIs(t, err, domain.ErrUnknownModel)

	assert.False(t, catalog.LoadedAt().IsZero())
}

func TestCatalogModelsIsACopy(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	models := catalog.Models()
	models[0].Entry.Name = "changed"
	assert.Equal(t, "google-gemini-1.5-pro-002", catalog.Names()[0])
}

func TestCatalogReplace(t *testing.T) {
	ctx := context.Background()
	catalog, path := newTestCatalog(t)

	doc := `- model name: azure-gpt-4.1
  PTU minumum deployment unit: 15
  PTU price of monthly commitment: 260
  PTU price of yearly commitment: 221
  PTU monthly discount: 0
  PTU yearly discount: 0.1
  input token price per 1k: 0.002
  output token price per 1k: 0.008
`
	models, err := catalog.Replace(ctx, "new-prices.yaml", []byte(doc))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, []string{"azure-gpt-4.1"}, catalog.Names())

	_, err = catalog.Lookup("azure-gpt-4o")
	assert.ErrorIs(t, err, domain.ErrUnknownModel)

	data, name, err := catalog.File(ctx)
	require.NoError(t, err)
	assert.Equal(t, "model_config.json", name)
	assert.Contains(t, string(data), `"azure-gpt-4.1"`)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
}

func TestCatalogReplaceRejected(t *testing.T) {
	ctx := context.Background()
	catalog, path := newTestCatalog(t)

	_, err := catalog.Replace(ctx, "model_config.json", []byte(`[{"model name": "broken"}]`))
	assert.ErrorIs(t, err, domain.ErrConfigParse)

	_, err = catalog.Replace(ctx, "prices.xml", []byte(`<models/>`))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.Len(t, catalog.Names(), 3)
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testCatalog, string(onDisk))
}
