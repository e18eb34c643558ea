package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumUsers   int           // Number of users to create
	NumEntries int           // Number of progress entries to submit
	TopN       int           // Number of ranking entries to fetch
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Enable verbose logging
}

// entry is a progress submission bound for POST /progress.
type entry struct {
	UserID   string `json:"user_id"`
	BookID   string `json:"book_id"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
}

// rankingEntry mirrors a snapshot entry from GET /rankings.
type rankingEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Score  int64  `json:"score"`
}

// rankingSnapshot mirrors the GET /rankings response body.
type rankingSnapshot struct {
	Scope     string         `json:"scope"`
	Period    string         `json:"period"`
	Entries   []rankingEntry `json:"entries"`
	UpdatedAt string         `json:"updated_at"`
}

// Stats holds load run statistics.
type Stats struct {
	UsersCreated      int
	BooksCreated      int
	EntriesSubmitted  int
	EntriesSuccessful int
	EntriesFailed     int
	RankingEntries    int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
