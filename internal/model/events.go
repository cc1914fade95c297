package model

// EventType identifies the type of a server-to-client event
type EventType string

const (
	// Connection events
	EventRegistered EventType = "registration_confirmed"

	// Challenge events
	EventChallengeReceived EventType = "challenge_received"
	EventChallengeDeclined EventType = "challenge_declined"
	EventGameStart         EventType = "game_start"

	// Session events
	EventGuessResult   EventType = "guess_result"
	EventOpponentGuess EventType = "opponent_guess"
	EventGameOver      EventType = "game_over"
	EventOpponentLeft  EventType = "opponent_left"

	// Error events
	EventError EventType = "error"
)

// Event is the base structure for all server-to-client events
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"data,omitempty"`
}

// RegisteredPayload confirms a register request
type RegisteredPayload struct {
	Identity PlayerID `json:"identity"`
}

// ChallengeReceivedPayload delivers a challenge to its target
type ChallengeReceivedPayload struct {
	Code       ChallengeCode `json:"code"`
	From       PlayerID      `json:"from"`
	Difficulty Difficulty    `json:"difficulty"`
	WordLength int           `json:"word_length"`
}

// ChallengeDeclinedPayload informs the challenger of a decline
type ChallengeDeclinedPayload struct {
	Code ChallengeCode `json:"code"`
}

// GameStartPayload informs both participants that a session has begun.
// The target word is never included; it is private server state.
type GameStartPayload struct {
	SessionID  SessionID  `json:"session_id"`
	Opponent   PlayerID   `json:"opponent"`
	Difficulty Difficulty `json:"difficulty"`
	WordLength int        `json:"word_length"`
}

// GuessResultPayload is sent to the submitting participant only
type GuessResultPayload struct {
	SessionID         SessionID      `json:"session_id"`
	Guess             string         `json:"guess"`
	Result            []LetterStatus `json:"result"`
	Winner            bool           `json:"is_winner"`
	RemainingAttempts int            `json:"remaining_attempts"`
}

// OpponentGuessPayload is sent to the non-submitting participant.
// RevealedWord is set only when the guess won, so the opponent learns the
// answer only once someone has actually solved it.
type OpponentGuessPayload struct {
	SessionID    SessionID      `json:"session_id"`
	Guess        string         `json:"guess"`
	Result       []LetterStatus `json:"result"`
	Winner       bool           `json:"is_winner"`
	RevealedWord string         `json:"revealed_word,omitempty"`
}

// GameOverPayload is sent exactly once to each participant when the session
// finalizes naturally (both participants individually finished).
type GameOverPayload struct {
	SessionID     SessionID `json:"session_id"`
	Won           bool      `json:"won"`
	Tries         int       `json:"tries"`
	OpponentTries int       `json:"opponent_tries"`
	TargetWord    string    `json:"target_word"`
}

// OpponentLeftPayload is sent to the remaining participant when the other
// explicitly leaves. The target word is deliberately not revealed.
type OpponentLeftPayload struct {
	SessionID SessionID `json:"session_id"`
}

// ErrorPayload is sent to the connection whose request failed
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
