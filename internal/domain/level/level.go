// Package level derives a user's level from cumulative XP.
package level

// XP required per level step.
const xpPerLevel = 1000

// For returns the level for the given cumulative XP. The minimum level
// is 1 at zero XP and there is no upper bound. Callers must recompute
// the level from scratch whenever XP changes; the value is never patched
// incrementally.
func For(cumulativeXP int64) int {
	if cumulativeXP < 0 {
		return 1
	}
	return int(cumulativeXP/xpPerLevel) + 1
}
