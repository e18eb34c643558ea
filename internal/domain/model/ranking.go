package model

import (
	"time"

	"github.com/yomu/leitura/internal/domain/period"
)

// RankingEntry is one row of a ranking snapshot.
type RankingEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Score  int64  `json:"score"`
}

// RankingSnapshot is the materialized ranking for one (scope, period)
// key. Recomputation replaces a snapshot wholesale; entries are never
// patched in place. UpdatedAt carries the basis time the snapshot was
// computed against and is monotonically non-decreasing per key.
type RankingSnapshot struct {
	Key       period.Key     `json:"-"`
	Entries   []RankingEntry `json:"entries"`
	UpdatedAt time.Time      `json:"updated_at"`
}
