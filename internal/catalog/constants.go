package catalog

import "time"

// Defaults
const (
	DefaultPath       = "configs/catalog.json"
	DefaultSchemaPath = "configs/schemas/catalog.schema.json"
	DefaultCacheTTL   = 5 * time.Minute
	DefaultCacheSize  = 256

	// ProbabilityTolerance absorbs float rounding in hand-written tables
	ProbabilityTolerance = 1e-6
)

// Cache keys
const (
	cacheKeyItems      = "items"
	cacheKeyCases      = "cases"
	cacheKeyCasePrefix = "case:"
)

// Error messages
const (
	ErrMsgReadCatalogFailed   = "failed to read catalog file %s: %w"
	ErrMsgSchemaFailed        = "catalog %s failed schema validation: %w"
	ErrMsgParseCatalogFailed  = "failed to parse catalog %s: %w"
	ErrMsgDuplicateItem       = "duplicate item_id %q"
	ErrMsgDuplicateCase       = "duplicate case_id %q"
	ErrMsgInvalidRarity       = "item %q has invalid rarity %q"
	ErrMsgNegativeValue       = "item %q has negative star_value"
	ErrMsgNegativePrice       = "case %q has negative price"
	ErrMsgEmptyTable          = "case %q has an empty probability table"
	ErrMsgUnknownItem         = "case %q references unknown item %q"
	ErrMsgNegativeProbability = "case %q gives item %q a negative probability"
	ErrMsgProbabilityOverflow = "case %q probabilities sum to %.6f, above 1"
	ErrMsgSeedFailed          = "failed to seed catalog: %w"
)

// Log messages
const (
	LogMsgCatalogWarning  = "Catalog warning"
	LogMsgCatalogSeeded   = "Catalog seeded"
	LogMsgCatalogReloaded = "Catalog reloaded"
	LogMsgCacheHit        = "Catalog cache hit"
)

// Warning formats
const (
	WarnMsgProbabilityDeficit = "case %q probabilities sum to %.6f; the remainder falls back to the first entry"
	WarnMsgOrphanItem         = "item %q is not in any case"
)
