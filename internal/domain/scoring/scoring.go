// Package scoring defines the XP policy applied to reading progress.
package scoring

import (
	"fmt"

	"github.com/yomu/leitura/internal/domain/model"
)

// XP awarded per progress unit.
const (
	xpPerPage    = 10
	xpPerChapter = 50
)

// Score maps a progress entry's unit and quantity to XP. It is pure and
// deterministic. Quantities below one are rejected with ErrInvalidQuantity;
// an unknown unit is a programming error and panics.
func Score(unit model.ProgressUnit, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	switch unit {
	case model.UnitPage:
		return int64(quantity) * xpPerPage, nil
	case model.UnitChapter:
		return int64(quantity) * xpPerChapter, nil
	default:
		panic("scoring: unknown progress unit " + string(unit))
	}
}
