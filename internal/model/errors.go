package model

import "errors"

// Common errors used across the application
var (
	// Challenge errors
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrDuplicateChallenge = errors.New("duplicate challenge")
	ErrInvalidDifficulty  = errors.New("invalid difficulty")
	ErrSelfChallenge      = errors.New("cannot challenge yourself")
	ErrNotChallengeTarget = errors.New("player is not the target of this challenge")

	// Session errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFinished    = errors.New("session is already finished")
	ErrNotAParticipant    = errors.New("player is not a participant in this session")
	ErrPlayerFinished     = errors.New("player has already finished this session")
	ErrInvalidGuessLength = errors.New("guess length does not match the target word")
	ErrUnknownWord        = errors.New("word is not in the dictionary")

	// Dictionary errors
	ErrNoWordsForLength    = errors.New("no dictionary words for requested length")
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")

	// Stats errors
	ErrStatsNotFound = errors.New("no stats recorded for player")
)
