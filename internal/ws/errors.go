package ws

import (
	"errors"

	"github.com/jspires/wordduel/internal/model"
)

// Wire error codes sent in error events
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeNotRegistered           = "NOT_REGISTERED"
	CodeInvalidDifficulty       = "INVALID_DIFFICULTY"
	CodeSelfChallenge           = "SELF_CHALLENGE"
	CodeChallengeNotFound       = "CHALLENGE_NOT_FOUND"
	CodeNotChallengeTarget      = "NOT_CHALLENGE_TARGET"
	CodeSessionNotFound         = "SESSION_NOT_FOUND"
	CodeSessionAlreadyFinished  = "SESSION_ALREADY_FINISHED"
	CodeNotAParticipant         = "NOT_A_PARTICIPANT"
	CodePlayerAlreadyFinished   = "PLAYER_ALREADY_FINISHED"
	CodeInvalidGuessLength      = "INVALID_GUESS_LENGTH"
	CodeWordNotRecognized       = "WORD_NOT_RECOGNIZED"
	CodeNoWordsAvailable        = "NO_WORDS_AVAILABLE"
	CodeInternalError           = "INTERNAL_ERROR"
)

// toErrorPayload converts a domain error into a wire error event payload.
// Every error is handled at the boundary of the operation that detected it
// and delivered only to the connection that caused it.
func toErrorPayload(err error) model.ErrorPayload {
	switch {
	case errors.Is(err, model.ErrInvalidDifficulty):
		return model.ErrorPayload{Code: CodeInvalidDifficulty, Message: "Difficulty must be easy, medium, hard, or expert"}
	case errors.Is(err, model.ErrSelfChallenge):
		return model.ErrorPayload{Code: CodeSelfChallenge, Message: "You cannot challenge yourself"}
	case errors.Is(err, model.ErrChallengeNotFound):
		return model.ErrorPayload{Code: CodeChallengeNotFound, Message: "This invite no longer exists"}
	case errors.Is(err, model.ErrNotChallengeTarget):
		return model.ErrorPayload{Code: CodeNotChallengeTarget, Message: "This invite was not sent to you"}
	case errors.Is(err, model.ErrSessionNotFound):
		return model.ErrorPayload{Code: CodeSessionNotFound, Message: "This game no longer exists"}
	case errors.Is(err, model.ErrSessionFinished):
		return model.ErrorPayload{Code: CodeSessionAlreadyFinished, Message: "This game is already over"}
	case errors.Is(err, model.ErrNotAParticipant):
		return model.ErrorPayload{Code: CodeNotAParticipant, Message: "You are not part of this game"}
	case errors.Is(err, model.ErrPlayerFinished):
		return model.ErrorPayload{Code: CodePlayerAlreadyFinished, Message: "You have already finished this game"}
	case errors.Is(err, model.ErrInvalidGuessLength):
		return model.ErrorPayload{Code: CodeInvalidGuessLength, Message: "Guess must match the target word length"}
	case errors.Is(err, model.ErrUnknownWord):
		return model.ErrorPayload{Code: CodeWordNotRecognized, Message: "That word is not in the dictionary"}
	case errors.Is(err, model.ErrNoWordsForLength), errors.Is(err, model.ErrDictionaryNotLoaded):
		return model.ErrorPayload{Code: CodeNoWordsAvailable, Message: "No words available for this difficulty"}
	default:
		return model.ErrorPayload{Code: CodeInternalError, Message: "Internal server error"}
	}
}
