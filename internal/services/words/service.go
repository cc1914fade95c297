package words

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jspires/wordduel/internal/dependencies/random"
	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/storage"
)

// Service provides word validation and target word selection, indexed by
// word length so each difficulty draws from its own pool.
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger

	mu       sync.RWMutex
	byLength map[int]map[string]struct{}
	ordered  map[int][]string // stable order for random selection
	loaded   bool
}

// New creates a new words Service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		random:   random,
		logger:   logger.With(slog.String("component", "words")),
		byLength: make(map[int]map[string]struct{}),
		ordered:  make(map[int][]string),
	}
}

// LoadFromStorage loads dictionary words from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	return s.loadWords(words)
}

// LoadFromFile loads dictionary words from a file (one word per line) and
// saves them to storage for future use.
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := s.storage.SaveDictionaryWords(ctx, words); err != nil {
		return err
	}

	return s.loadWords(words)
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []string) error {
	return s.loadWords(words)
}

func (s *Service) loadWords(words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byLength = make(map[int]map[string]struct{})
	s.ordered = make(map[int][]string)

	for _, word := range words {
		w := strings.ToUpper(strings.TrimSpace(word))
		if w == "" {
			continue
		}
		n := len(w)
		set, ok := s.byLength[n]
		if !ok {
			set = make(map[string]struct{})
			s.byLength[n] = set
		}
		if _, dup := set[w]; dup {
			continue
		}
		set[w] = struct{}{}
		s.ordered[n] = append(s.ordered[n], w)
	}
	s.loaded = true

	s.logger.Info("dictionary loaded", slog.Int("word_count", len(words)))
	return nil
}

// IsValid checks whether a word exists in the dictionary. Matching is
// case-insensitive.
func (s *Service) IsValid(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}

	w := strings.ToUpper(word)
	set, ok := s.byLength[len(w)]
	if !ok {
		return false
	}
	_, ok = set[w]
	return ok
}

// PickWord draws a random uppercase target word for the given difficulty.
// Returns ErrNoWordsForLength if the pool for that length is empty.
func (s *Service) PickWord(ctx context.Context, difficulty model.Difficulty) (string, error) {
	if !difficulty.Valid() {
		return "", model.ErrInvalidDifficulty
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return "", model.ErrDictionaryNotLoaded
	}

	pool := s.ordered[difficulty.WordLength()]
	if len(pool) == 0 {
		return "", model.ErrNoWordsForLength
	}

	return pool[s.random.Intn(len(pool))], nil
}

// IsLoaded returns whether the dictionary has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of words loaded for the given length
func (s *Service) WordCount(length int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ordered[length])
}

// Interface for dependency injection
type ServiceInterface interface {
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadWords(words []string) error
	IsValid(word string) bool
	PickWord(ctx context.Context, difficulty model.Difficulty) (string, error)
	IsLoaded() bool
	WordCount(length int) int
}

var _ ServiceInterface = (*Service)(nil)
