package storage

import (
	"context"

	"github.com/jspires/wordduel/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Challenge operations
	SaveChallenge(ctx context.Context, challenge *model.Challenge) error
	GetChallenge(ctx context.Context, code model.ChallengeCode) (*model.Challenge, error)
	DeleteChallenge(ctx context.Context, code model.ChallengeCode) error
	ListChallengesForTarget(ctx context.Context, target model.PlayerID) ([]*model.Challenge, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// Result and stats operations
	SaveResult(ctx context.Context, result *model.GameResult) error
	ListResultsForPlayer(ctx context.Context, player model.PlayerID) ([]*model.GameResult, error)
	SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error
	GetPlayerStats(ctx context.Context, player model.PlayerID) (*model.PlayerStats, error)

	// Dictionary operations
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error
}
