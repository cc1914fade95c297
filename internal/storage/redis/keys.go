package redis

import (
	"fmt"

	"github.com/jspires/wordduel/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wordduel"

// challengeKey returns the Redis key for a Challenge
func challengeKey(code model.ChallengeCode) string {
	return fmt.Sprintf("%s:challenge:%s", keyPrefix, code)
}

// challengesForTargetIndexKey returns the Redis key for the SET of challenge
// codes addressed to a player
func challengesForTargetIndexKey(target model.PlayerID) string {
	return fmt.Sprintf("%s:idx:challenges_for:%s", keyPrefix, target)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// resultsKey returns the Redis key for the LIST of a player's game results
func resultsKey(player model.PlayerID) string {
	return fmt.Sprintf("%s:results:%s", keyPrefix, player)
}

// statsKey returns the Redis key for a player's aggregate stats
func statsKey(player model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, player)
}

// dictionaryKey returns the Redis key for the dictionary word set
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}
