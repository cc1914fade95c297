package guess

import (
	"strings"

	"github.com/jspires/wordduel/internal/model"
)

// Evaluate scores a guess against the target word, producing one status per
// position. Both strings are uppercased before comparison; the caller must
// ensure they have equal length.
//
// Matching is done in two passes so a repeated letter in the guess is never
// credited more times than it occurs in the target: exact positional matches
// consume their letter first, then leftover letters satisfy "present" marks
// in order until the target's count for that letter runs out.
func Evaluate(target, guess string) []model.LetterStatus {
	t := strings.ToUpper(target)
	g := strings.ToUpper(guess)

	result := make([]model.LetterStatus, len(g))
	remaining := make(map[byte]int, len(t))
	for i := 0; i < len(t); i++ {
		remaining[t[i]]++
	}

	// First pass: exact matches
	for i := 0; i < len(g); i++ {
		if g[i] == t[i] {
			result[i] = model.LetterCorrect
			remaining[g[i]]--
		}
	}

	// Second pass: misplaced letters, bounded by what the target has left
	for i := 0; i < len(g); i++ {
		if result[i] == model.LetterCorrect {
			continue
		}
		if remaining[g[i]] > 0 {
			result[i] = model.LetterPresent
			remaining[g[i]]--
		} else {
			result[i] = model.LetterAbsent
		}
	}

	return result
}

// IsWinning reports whether every position in a result is correct
func IsWinning(result []model.LetterStatus) bool {
	for _, status := range result {
		if status != model.LetterCorrect {
			return false
		}
	}
	return len(result) > 0
}
