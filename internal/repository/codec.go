package repository

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/set-night/ptucalc/internal/domain"
)

// Codec reads and writes a whole catalog document.
type Codec interface {
	Decode(data []byte) ([]domain.ModelPriceEntry, error)
	Encode(entries []domain.ModelPriceEntry) ([]byte, error)
	Ext() string
}

// CodecFor picks a codec from the file extension.
func CodecFor(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return jsonCodec{}, nil
	case ".yaml", ".yml":
		return yamlCodec{}, nil
	case ".toml":
		return tomlCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported catalog format %q (want .json, .yaml or .toml)", domain.ErrInvalidArgument, filepath.Ext(path))
	}
}

type jsonCodec struct{}

func (jsonCodec) Ext() string { return ".json" }

func (jsonCodec) Decode(data []byte) ([]domain.ModelPriceEntry, error) {
	var entries []domain.ModelPriceEntry
	if err := sonic.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: json: %v", domain.ErrConfigParse, err)
	}
	return entries, nil
}

func (jsonCodec) Encode(entries []domain.ModelPriceEntry) ([]byte, error) {
	out, err := sonic.ConfigStd.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json catalog: %w", err)
	}
	return append(out, '\n'), nil
}

type yamlCodec struct{}

func (yamlCodec) Ext() string { return ".yaml" }

func (yamlCodec) Decode(data []byte) ([]domain.ModelPriceEntry, error) {
	var entries []domain.ModelPriceEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", domain.ErrConfigParse, err)
	}
	return entries, nil
}

func (yamlCodec) Encode(entries []domain.ModelPriceEntry) ([]byte, error) {
	out, err := yaml.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode yaml catalog: %w", err)
	}
	return out, nil
}

// TOML has no top-level arrays, so entries live under [[models]].
type tomlDocument struct {
	Models []domain.ModelPriceEntry `toml:"models"`
}

type tomlCodec struct{}

func (tomlCodec) Ext() string { return ".toml" }

func (tomlCodec) Decode(data []byte) ([]domain.ModelPriceEntry, error) {
	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: toml: %v", domain.ErrConfigParse, err)
	}
	return doc.Models, nil
}

func (tomlCodec) Encode(entries []domain.ModelPriceEntry) ([]byte, error) {
	out, err := toml.Marshal(tomlDocument{Models: entries})
	if err != nil {
		return nil, fmt.Errorf("encode toml catalog: %w", err)
	}
	return out, nil
}

// ParseCatalog decodes and validates a catalog document. Every failure
// wraps domain.ErrConfigParse.
func ParseCatalog(codec Codec, data []byte) ([]domain.ModelPriceEntry, error) {
	entries, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: catalog has no models", domain.ErrConfigParse)
	}

	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		key := strings.ToLower(strings.TrimSpace(entries[i].Name))
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate model name %q", domain.ErrConfigParse, entries[i].Name)
		}
		seen[key] = struct{}{}
	}
	return entries, nil
}
