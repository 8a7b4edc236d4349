package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/validation"
)

// File is the on-disk catalog document
type File struct {
	Version string        `json:"version,omitempty"`
	Items   []domain.Item `json:"items"`
	Cases   []domain.Case `json:"cases"`
}

// Load reads the catalog at path and validates it against the JSON schema
// at schemaPath. Cross-reference checks are left to Check.
func Load(path, schemaPath string, v validation.SchemaValidator) (*File, error) {
	resolved, err := validation.ResolvePath(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadCatalogFailed, path, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadCatalogFailed, path, err)
	}
	if v != nil {
		if err := v.ValidateBytes(data, schemaPath); err != nil {
			return nil, fmt.Errorf(ErrMsgSchemaFailed, path, err)
		}
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf(ErrMsgParseCatalogFailed, path, err)
	}
	return &f, nil
}

// Check verifies the references between cases and items. It returns
// non-fatal warnings separately from the joined set of defects, which are
// wrapped in domain.ErrCatalogIntegrity.
func (f *File) Check() ([]string, error) {
	var (
		warnings []string
		defects  []error
	)
	fail := func(format string, args ...any) {
		defects = append(defects, fmt.Errorf(format, args...))
	}

	items := make(map[string]domain.Item, len(f.Items))
	for _, item := range f.Items {
		if _, dup := items[item.ID]; dup {
			fail(ErrMsgDuplicateItem, item.ID)
		}
		if !item.Rarity.Valid() {
			fail(ErrMsgInvalidRarity, item.ID, item.Rarity)
		}
		if item.StarValue < 0 {
			fail(ErrMsgNegativeValue, item.ID)
		}
		items[item.ID] = item
	}

	used := make(map[string]bool, len(items))
	cases := make(map[string]bool, len(f.Cases))
	for _, c := range f.Cases {
		if cases[c.ID] {
			fail(ErrMsgDuplicateCase, c.ID)
		}
		cases[c.ID] = true

		if c.Price < 0 {
			fail(ErrMsgNegativePrice, c.ID)
		}
		if len(c.Entries) == 0 {
			defects = append(defects, fmt.Errorf("%w: "+ErrMsgEmptyTable, domain.ErrEmptyProbabilityTable, c.ID))
			continue
		}
		for _, e := range c.Entries {
			if _, ok := items[e.ItemID]; !ok {
				fail(ErrMsgUnknownItem, c.ID, e.ItemID)
			}
			if e.Probability < 0 {
				fail(ErrMsgNegativeProbability, c.ID, e.ItemID)
			}
			used[e.ItemID] = true
		}

		switch sum := c.ProbabilitySum(); {
		case sum > 1+ProbabilityTolerance:
			fail(ErrMsgProbabilityOverflow, c.ID, sum)
		case sum < 1-ProbabilityTolerance:
			warnings = append(warnings, fmt.Sprintf(WarnMsgProbabilityDeficit, c.ID, sum))
		}
	}

	for _, item := range f.Items {
		if !used[item.ID] {
			warnings = append(warnings, fmt.Sprintf(WarnMsgOrphanItem, item.ID))
		}
	}

	if len(defects) > 0 {
		return warnings, fmt.Errorf("%w: %w", domain.ErrCatalogIntegrity, errors.Join(defects...))
	}
	return warnings, nil
}
