package stats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/storage"
)

// Points awarded per finalized result. A win earns a base plus one point for
// each unused attempt; a loss still earns a participation point.
const (
	winBasePoints       = 10
	lossPoints          = 1
	unusedAttemptPoints = 1
)

// Service persists finalized game results and maintains per-player
// aggregates. The game core hands it one result record per participant when
// a session concludes; it owns nothing about live session state.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new stats Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// Record durably stores a finalized result and folds it into the player's
// aggregate stats.
func (s *Service) Record(ctx context.Context, result *model.GameResult) error {
	if err := s.storage.SaveResult(ctx, result); err != nil {
		return err
	}

	stats, err := s.storage.GetPlayerStats(ctx, result.Player)
	if err != nil {
		if !errors.Is(err, model.ErrStatsNotFound) {
			return err
		}
		stats = &model.PlayerStats{Player: result.Player}
	}

	stats.GamesPlayed++
	if result.Won {
		stats.Wins++
		stats.Points += winBasePoints + unusedAttemptPoints*(model.MaxAttempts-result.Tries)
	} else {
		stats.Losses++
		stats.Points += lossPoints
	}

	if err := s.storage.SavePlayerStats(ctx, stats); err != nil {
		return err
	}

	s.logger.Info("result recorded",
		slog.String("session_id", string(result.SessionID)),
		slog.String("player", string(result.Player)),
		slog.Bool("won", result.Won),
		slog.Int("tries", result.Tries),
	)
	return nil
}

// Stats returns the aggregate stats for a player. A player with no recorded
// games yields ErrStatsNotFound.
func (s *Service) Stats(ctx context.Context, player model.PlayerID) (*model.PlayerStats, error) {
	return s.storage.GetPlayerStats(ctx, player)
}

// Results returns all finalized results recorded for a player
func (s *Service) Results(ctx context.Context, player model.PlayerID) ([]*model.GameResult, error) {
	return s.storage.ListResultsForPlayer(ctx, player)
}

// Interface for dependency injection
type ServiceInterface interface {
	Record(ctx context.Context, result *model.GameResult) error
	Stats(ctx context.Context, player model.PlayerID) (*model.PlayerStats, error)
	Results(ctx context.Context, player model.PlayerID) ([]*model.GameResult, error)
}

var _ ServiceInterface = (*Service)(nil)
