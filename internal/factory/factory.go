package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/jspires/wordduel/internal/dependencies/clock"
	"github.com/jspires/wordduel/internal/dependencies/random"
	"github.com/jspires/wordduel/internal/services/challenge"
	"github.com/jspires/wordduel/internal/services/registry"
	"github.com/jspires/wordduel/internal/services/session"
	"github.com/jspires/wordduel/internal/services/stats"
	"github.com/jspires/wordduel/internal/services/words"
	"github.com/jspires/wordduel/internal/storage"
	"github.com/jspires/wordduel/internal/storage/memory"
	redisstorage "github.com/jspires/wordduel/internal/storage/redis"
	"github.com/jspires/wordduel/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry            *registry.Registry
	WordsService        *words.Service
	StatsService        *stats.Service
	SessionController   *session.Controller
	ChallengeController *challenge.Controller
	WSHandler           *ws.Handler
}

// Config holds configuration for the application factory.
// Dictionary loading is the caller's concern: construct the App, then load
// words through App.WordsService.
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AcceptAllWords disables dictionary validation of guesses
	AcceptAllWords bool
	// ChallengeWindow overrides the challenge freshness window (optional)
	ChallengeWindow time.Duration
	// GuessDedupWindow overrides the duplicate-guess window (optional)
	GuessDedupWindow time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), logger, cfg), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger, cfg Config) *App {
	reg := registry.New(logger)
	wordsService := words.New(store, rnd, logger)
	statsService := stats.New(store, logger)
	sessionController := session.NewController(store, wordsService, statsService, reg, clk, logger, session.Config{
		AcceptAllWords: cfg.AcceptAllWords,
		DedupWindow:    cfg.GuessDedupWindow,
	})
	challengeController := challenge.NewController(store, sessionController, reg, clk, logger, cfg.ChallengeWindow)
	wsHandler := ws.NewHandler(reg, challengeController, sessionController, logger)

	return &App{
		Storage:             store,
		Clock:               clk,
		Random:              rnd,
		Registry:            reg,
		WordsService:        wordsService,
		StatsService:        statsService,
		SessionController:   sessionController,
		ChallengeController: challengeController,
		WSHandler:           wsHandler,
	}
}
