package vector

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

// CheckBatch verifies every section carries a vector and that all vectors
// share one dimension. It returns that dimension (0 for an empty batch).
func CheckBatch(sections []domain.Section) (int, error) {
	dims := 0
	for i, s := range sections {
		if len(s.Vector) == 0 {
			return 0, fmt.Errorf("%w: section %s has no vector", domain.ErrInvalidInput, s.ID)
		}
		if i == 0 {
			dims = len(s.Vector)
			continue
		}
		if len(s.Vector) != dims {
			return 0, fmt.Errorf("%w: section %s has %d dimensions, expected %d",
				domain.ErrInvalidInput, s.ID, len(s.Vector), dims)
		}
	}
	return dims, nil
}

// CheckQuery verifies a query vector can be compared with a generation of dims.
func CheckQuery(query []float32, dims int) error {
	if len(query) == 0 {
		return fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}
	if dims > 0 && len(query) != dims {
		return fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrInvalidInput, len(query), dims)
	}
	return nil
}

// Rank orders sections by cosine distance to query, closest first, and
// returns at most limit of them with Distance set and Vector cleared.
// Ties keep their input order.
func Rank(query []float32, sections []domain.Section, limit int) []domain.Section {
	type scored struct {
		section  domain.Section
		distance float64
	}

	all := make([]scored, 0, len(sections))
	for _, s := range sections {
		all = append(all, scored{section: s, distance: CosineDistance(query, s.Vector)})
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].distance < all[j].distance
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	out := make([]domain.Section, len(all))
	for i := range all {
		d := all[i].distance
		out[i] = all[i].section
		out[i].Vector = nil
		out[i].Distance = &d
	}
	return out
}
