package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Challenge operations

func (s *Storage) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	data, err := json.Marshal(challenge)
	if err != nil {
		return err
	}

	key := challengeKey(challenge.Code)
	indexKey := challengesForTargetIndexKey(challenge.To)

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.ChallengeTTL)
	pipe.SAdd(ctx, indexKey, string(challenge.Code))
	pipe.Expire(ctx, indexKey, s.cfg.ChallengeTTL) // Keep index TTL in sync
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetChallenge(ctx context.Context, code model.ChallengeCode) (*model.Challenge, error) {
	data, err := s.client.Get(ctx, challengeKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrChallengeNotFound
		}
		return nil, err
	}

	var challenge model.Challenge
	if err := json.Unmarshal(data, &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (s *Storage) DeleteChallenge(ctx context.Context, code model.ChallengeCode) error {
	challenge, err := s.GetChallenge(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrChallengeNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, challengeKey(code))
	pipe.SRem(ctx, challengesForTargetIndexKey(challenge.To), string(code))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListChallengesForTarget(ctx context.Context, target model.PlayerID) ([]*model.Challenge, error) {
	indexKey := challengesForTargetIndexKey(target)

	codes, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(codes) == 0 {
		return nil, nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = challengeKey(model.ChallengeCode(code))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	challenges := make([]*model.Challenge, 0, len(values))
	for i, val := range values {
		if val == nil {
			// Challenge expired out from under the index; clean up
			s.client.SRem(ctx, indexKey, codes[i])
			continue
		}
		var challenge model.Challenge
		if err := json.Unmarshal([]byte(val.(string)), &challenge); err != nil {
			continue // Skip invalid data
		}
		challenges = append(challenges, &challenge)
	}

	return challenges, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Finished sessions age out faster than active ones
	ttl := s.cfg.SessionTTL
	if session.Finished {
		ttl = s.cfg.FinishedSessionTTL
	}

	return s.client.Set(ctx, sessionKey(session.ID), data, ttl).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// Result and stats operations

func (s *Storage) SaveResult(ctx context.Context, result *model.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.client.RPush(ctx, resultsKey(result.Player), data).Err()
}

func (s *Storage) ListResultsForPlayer(ctx context.Context, player model.PlayerID) ([]*model.GameResult, error) {
	values, err := s.client.LRange(ctx, resultsKey(player), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*model.GameResult, 0, len(values))
	for _, val := range values {
		var result model.GameResult
		if err := json.Unmarshal([]byte(val), &result); err != nil {
			continue // Skip invalid data
		}
		results = append(results, &result)
	}
	return results, nil
}

func (s *Storage) SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, statsKey(stats.Player), data, 0).Err()
}

func (s *Storage) GetPlayerStats(ctx context.Context, player model.PlayerID) (*model.PlayerStats, error) {
	data, err := s.client.Get(ctx, statsKey(player)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var stats model.PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	key := dictionaryKey()

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}

	return s.client.SMembers(ctx, key).Result()
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	key := dictionaryKey()

	// Delete existing dictionary and add new words atomically
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)

	if len(words) > 0 {
		members := make([]interface{}, len(words))
		for i, w := range words {
			members[i] = w
		}
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
