package loadgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/yomu/leitura/pkg/logger"
)

// Reader archetype cases for quantity distribution.
const (
	caseCasualReader = 0
	caseSteadyReader = 1
	caseAvidReader   = 2
	caseBingeReader  = 3
	archetypeCount   = 4
)

// Quantity ranges per archetype.
const (
	casualMin = 1
	casualMax = 5
	steadyMin = 5
	steadyMax = 20
	avidMin   = 20
	avidMax   = 60
	bingeMin  = 60
	bingeMax  = 200
)

const chapterChanceDenominator = 5

// createdResource captures the id of a freshly created user or book.
type createdResource struct {
	ID string
}

// randomInt returns a random int in [min, max) using crypto/rand.
func randomInt(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return min + int(n.Int64())
}

// seedUsers creates NumUsers users and one book each through the API.
// Returned slices are index-aligned: bookIDs[i] belongs to userIDs[i].
func seedUsers(ctx context.Context, client *httpClient, config *Config, stats *Stats) (userIDs, bookIDs []string, err error) {
	logger.Get().Info(ctx, "seeding users and books", logger.Int("numUsers", config.NumUsers))

	userIDs = make([]string, 0, config.NumUsers)
	bookIDs = make([]string, 0, config.NumUsers)

	for i := 0; i < config.NumUsers; i++ {
		suffix := strconv.Itoa(i)
		var user createdResource
		err := client.postJSON(ctx, config.BaseURL+"/users", map[string]string{
			"username": "loadgen_user_" + suffix,
			"name":     "Load User " + suffix,
			"email":    "loadgen" + suffix + "@example.com",
		}, &user, 201)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create user %d: %w", i, err)
		}

		var book createdResource
		err = client.postJSON(ctx, config.BaseURL+"/books", map[string]interface{}{
			"user_id":  user.ID,
			"title":    "Load Book " + suffix,
			"author":   "Generator",
			"pages":    300,
			"chapters": 12,
		}, &book, 201)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create book for user %d: %w", i, err)
		}

		userIDs = append(userIDs, user.ID)
		bookIDs = append(bookIDs, book.ID)
	}

	stats.UsersCreated = len(userIDs)
	stats.BooksCreated = len(bookIDs)
	logger.Get().Info(ctx, "seeded users and books", logger.Int("count", len(userIDs)))
	return userIDs, bookIDs, nil
}

// generateEntries builds NumEntries progress submissions spread across the
// seeded users with a varied quantity distribution.
func generateEntries(ctx context.Context, config *Config, userIDs, bookIDs []string) []entry {
	logger.Get().Info(ctx, "generating progress entries", logger.Int("numEntries", config.NumEntries))

	entries := make([]entry, config.NumEntries)
	for i := range entries {
		idx := randomInt(0, len(userIDs))
		entries[i] = entry{
			UserID:   userIDs[idx],
			BookID:   bookIDs[idx],
			Unit:     randomUnit(),
			Quantity: randomQuantity(),
		}
	}
	return entries
}

// randomUnit picks PAGE most of the time with an occasional CHAPTER.
func randomUnit() string {
	if randomInt(0, chapterChanceDenominator) == 0 {
		return "CHAPTER"
	}
	return "PAGE"
}

// randomQuantity draws a quantity from one of the reader archetypes.
func randomQuantity() int {
	switch randomInt(0, archetypeCount) {
	case caseCasualReader:
		return randomInt(casualMin, casualMax)
	case caseSteadyReader:
		return randomInt(steadyMin, steadyMax)
	case caseAvidReader:
		return randomInt(avidMin, avidMax)
	case caseBingeReader:
		return randomInt(bingeMin, bingeMax)
	default:
		return randomInt(casualMin, casualMax)
	}
}
