package verification

import (
	"strings"
	"testing"
)

func TestGenerateCodeShape(t *testing.T) {
	allowed := make(map[string]bool, len(safeWords))
	for _, w := range safeWords {
		allowed[w] = true
	}

	for i := 0; i < 200; i++ {
		code := generateCode()
		words := strings.Split(code, " ")
		if len(words) < minCodeWords || len(words) > maxCodeWords {
			t.Fatalf("code %q has %d words, want between %d and %d", code, len(words), minCodeWords, maxCodeWords)
		}
		for _, w := range words {
			if !allowed[w] {
				t.Fatalf("code %q contains word %q outside the safe list", code, w)
			}
		}
	}
}
