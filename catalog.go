package ptucalc

import _ "embed"

// DefaultCatalog is the price list written to the catalog path when no
// catalog file exists yet.
//
//go:embed model_config.json
var DefaultCatalog []byte
