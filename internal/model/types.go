package model

import "time"

// PlayerID is the stable username identifying a player, independent of any
// particular connection. It is supplied by the external identity service.
type PlayerID string

// ConnectionID uniquely identifies a live transport connection
type ConnectionID string

// ChallengeCode uniquely identifies a pending challenge. An accepted
// challenge's code becomes the session ID.
type ChallengeCode string

// SessionID uniquely identifies an active game session
type SessionID string

// Difficulty controls the target word length
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"   // 4 letters
	DifficultyMedium Difficulty = "medium" // 5 letters
	DifficultyHard   Difficulty = "hard"   // 6 letters
	DifficultyExpert Difficulty = "expert" // 7 letters
)

// WordLength returns the target word length for this difficulty, or 0 if the
// difficulty is unknown.
func (d Difficulty) WordLength() int {
	switch d {
	case DifficultyEasy:
		return 4
	case DifficultyMedium:
		return 5
	case DifficultyHard:
		return 6
	case DifficultyExpert:
		return 7
	default:
		return 0
	}
}

// Valid reports whether d is a recognized difficulty
func (d Difficulty) Valid() bool {
	return d.WordLength() != 0
}

// LetterStatus classifies a single guess letter against the target word
type LetterStatus string

const (
	LetterCorrect LetterStatus = "correct" // right letter, right position
	LetterPresent LetterStatus = "present" // right letter, wrong position
	LetterAbsent  LetterStatus = "absent"  // letter not in target (or already consumed)
)

// MaxAttempts is the number of guesses each participant gets per session
const MaxAttempts = 6

// Challenge is a pending invitation from one player to another. It is
// immutable once created; responding to it (either way) deletes it.
type Challenge struct {
	Code       ChallengeCode `json:"code"`
	From       PlayerID      `json:"from"`
	To         PlayerID      `json:"to"`
	Difficulty Difficulty    `json:"difficulty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// ExpiresAt returns the instant after which the challenge is considered stale
func (c *Challenge) ExpiresAt(ttl time.Duration) time.Time {
	return c.CreatedAt.Add(ttl)
}

// Guess is one recorded guess and its evaluation
type Guess struct {
	Word        string         `json:"word"`
	Result      []LetterStatus `json:"result"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Participant tracks one player's progress within a session
type Participant struct {
	Guesses           []Guess `json:"guesses"`
	RemainingAttempts int     `json:"remaining_attempts"`
	Finished          bool    `json:"finished"`
	Won               bool    `json:"won"`
}

// Tries returns the number of attempts the participant has used
func (p *Participant) Tries() int {
	return MaxAttempts - p.RemainingAttempts
}

// Session is an active two-player match with a fixed secret target word
type Session struct {
	ID         SessionID  `json:"id"`
	Players    []PlayerID `json:"players"` // always exactly two
	Difficulty Difficulty `json:"difficulty"`
	TargetWord string     `json:"target_word"` // uppercase, private server state
	WordLength int        `json:"word_length"`

	Participants map[PlayerID]*Participant `json:"participants"`

	// Finished is set once both participants are individually finished,
	// or on an explicit leave.
	Finished bool `json:"finished"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Participant returns the sub-record for the given player, or nil if the
// player is not part of this session.
func (s *Session) Participant(id PlayerID) *Participant {
	return s.Participants[id]
}

// Opponent returns the other participant's ID
func (s *Session) Opponent(id PlayerID) PlayerID {
	for _, p := range s.Players {
		if p != id {
			return p
		}
	}
	return ""
}

// AllFinished reports whether every participant is individually finished
func (s *Session) AllFinished() bool {
	for _, p := range s.Players {
		sub := s.Participants[p]
		if sub == nil || !sub.Finished {
			return false
		}
	}
	return true
}

// GameResult is the finalized outcome record for one participant, handed to
// the stats service when a session completes.
type GameResult struct {
	SessionID   SessionID `json:"session_id"`
	Player      PlayerID  `json:"player"`
	Won         bool      `json:"won"`
	Tries       int       `json:"tries"`
	Forfeited   bool      `json:"forfeited"`
	CompletedAt time.Time `json:"completed_at"`
}

// PlayerStats is the per-player aggregate kept by the stats service
type PlayerStats struct {
	Player      PlayerID `json:"player"`
	Points      int      `json:"points"`
	Wins        int      `json:"wins"`
	Losses      int      `json:"losses"`
	GamesPlayed int      `json:"games_played"`
}
