package factory

import (
	"time"

	"github.com/jspires/wordduel/internal/dependencies/mocks"
	"github.com/jspires/wordduel/internal/storage/memory"
	"github.com/jspires/wordduel/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, testutil.NopLogger(), Config{})

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestDictionary loads a small per-length dictionary for testing.
// MockRandom's default Intn of 0 picks the first word of each length:
// WORD, CRANE, ROBOTS, MACHINE.
func (t *TestApp) LoadTestDictionary() error {
	words := []string{
		// 4-letter words (easy)
		"word", "game", "play", "duel", "code", "wins",
		// 5-letter words (medium)
		"crane", "robot", "error", "slate", "audio", "house", "guess",
		// 6-letter words (hard)
		"robots", "planet", "silver", "garden", "monkey",
		// 7-letter words (expert)
		"machine", "journey", "crystal", "fortune",
	}
	return t.WordsService.LoadWords(words)
}
