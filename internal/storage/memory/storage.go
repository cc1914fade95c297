package memory

import (
	"context"
	"sync"

	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	challenges      map[model.ChallengeCode]*model.Challenge
	sessions        map[model.SessionID]*model.Session
	results         map[model.PlayerID][]*model.GameResult
	stats           map[model.PlayerID]*model.PlayerStats
	dictionaryWords []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		challenges: make(map[model.ChallengeCode]*model.Challenge),
		sessions:   make(map[model.SessionID]*model.Session),
		results:    make(map[model.PlayerID][]*model.GameResult),
		stats:      make(map[model.PlayerID]*model.PlayerStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Challenge operations

func (s *Storage) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.Code] = challenge
	return nil
}

func (s *Storage) GetChallenge(ctx context.Context, code model.ChallengeCode) (*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenge, ok := s.challenges[code]
	if !ok {
		return nil, model.ErrChallengeNotFound
	}
	return challenge, nil
}

func (s *Storage) DeleteChallenge(ctx context.Context, code model.ChallengeCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, code)
	return nil
}

func (s *Storage) ListChallengesForTarget(ctx context.Context, target model.PlayerID) ([]*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Challenge
	for _, c := range s.challenges {
		if c.To == target {
			out = append(out, c)
		}
	}
	return out, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Result and stats operations

func (s *Storage) SaveResult(ctx context.Context, result *model.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.Player] = append(s.results[result.Player], result)
	return nil
}

func (s *Storage) ListResultsForPlayer(ctx context.Context, player model.PlayerID) ([]*model.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := s.results[player]
	out := make([]*model.GameResult, len(results))
	copy(out, results)
	return out, nil
}

func (s *Storage) SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[stats.Player] = stats
	return nil
}

func (s *Storage) GetPlayerStats(ctx context.Context, player model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[player]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	return st, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dictionaryWords == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	words := make([]string, len(s.dictionaryWords))
	copy(words, s.dictionaryWords)
	return words, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaryWords = make([]string, len(words))
	copy(s.dictionaryWords, words)
	return nil
}
