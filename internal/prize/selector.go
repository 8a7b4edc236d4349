// Package prize implements the weighted draw used by every case opening.
package prize

import (
	"fmt"
	"sync"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/utils"
)

// Select walks the probability table in order and returns the item of the
// first entry whose running cumulative probability is strictly greater than r.
// A sample that lands exactly on a boundary belongs to the next entry.
//
// When no entry matches (the table sums to less than r, or float rounding
// leaves a sliver near 1.0) the first entry is returned. An empty table is a
// configuration error.
func Select(entries []domain.CaseEntry, r float64) (string, error) {
	if len(entries) == 0 {
		return "", domain.ErrEmptyProbabilityTable
	}

	var cumulative float64
	for _, e := range entries {
		cumulative += e.Probability
		if r < cumulative {
			return e.ItemID, nil
		}
	}
	return entries[0].ItemID, nil
}

// Source produces samples in [0, 1)
type Source func() (float64, error)

// SecureSource draws samples from crypto/rand
func SecureSource() Source {
	return utils.SecureRandomFloat
}

// Selector pairs Select with a random source
type Selector struct {
	source Source
}

// NewSelector creates a selector. A nil source falls back to SecureSource.
func NewSelector(source Source) *Selector {
	if source == nil {
		source = SecureSource()
	}
	return &Selector{source: source}
}

// Draw selects one item ID from entries with a fresh sample and returns the sample used
func (s *Selector) Draw(entries []domain.CaseEntry) (string, float64, error) {
	if len(entries) == 0 {
		return "", 0, domain.ErrEmptyProbabilityTable
	}
	r, err := s.Roll()
	if err != nil {
		return "", 0, err
	}
	id, err := Select(entries, r)
	return id, r, err
}

// Roll returns a fresh sample from the source
func (s *Selector) Roll() (float64, error) {
	r, err := s.source()
	if err != nil {
		return 0, fmt.Errorf("draw sample: %w", err)
	}
	if r < 0 || r >= 1 {
		return 0, fmt.Errorf("draw sample: %v outside [0, 1)", r)
	}
	return r, nil
}

// FixedSource replays the given samples in order, cycling when exhausted.
// Tests use it to make draws deterministic.
func FixedSource(samples ...float64) Source {
	var mu sync.Mutex
	i := 0
	return func() (float64, error) {
		if len(samples) == 0 {
			return 0, nil
		}
		mu.Lock()
		defer mu.Unlock()
		r := samples[i%len(samples)]
		i++
		return r, nil
	}
}
