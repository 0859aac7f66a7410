package verification

import (
	"math/rand/v2"
	"strings"
)

// Challenge codes are a space-joined run of 5 to 9 words drawn with
// repetition from a fixed safe-word list. The words are deliberately
// bland so the code survives profile-text content filtering.
const (
	minCodeWords = 5
	maxCodeWords = 9
)

var safeWords = []string{
	"adventure", "build", "create", "explore", "fun", "game", "happy", "island",
	"jump", "kind", "magic", "nice", "ocean", "play", "quest", "run", "smile",
	"team", "universe", "victory", "collect", "dream", "enjoy", "friendly",
	"hero", "join", "laugh", "meet", "open", "race",
}

func generateCode() string {
	n := minCodeWords + rand.IntN(maxCodeWords-minCodeWords+1)
	words := make([]string, n)
	for i := range words {
		words[i] = safeWords[rand.IntN(len(safeWords))]
	}
	return strings.Join(words, " ")
}
