package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterPoolLengthsAndDistinctLetters(t *testing.T) {
	for _, weighted := range []bool{false, true} {
		lp := NewSeededLetterPool(weighted, 42)
		for length := 0; length <= 26; length++ {
			for i := 0; i < 20; i++ {
				got := lp.Generate(length)
				if len(got) != length {
					t.Fatalf("expected length %d, got %q", length, got)
				}
				seen := map[rune]bool{}
				for _, c := range got {
					if c < 'A' || c > 'Z' {
						t.Fatalf("expected uppercase letters, got %q", got)
					}
					if seen[c] {
						t.Fatalf("letter %c repeated in %q", c, got)
					}
					seen[c] = true
				}
			}
		}
	}
}

func TestLetterPoolFullAlphabet(t *testing.T) {
	got := NewSeededLetterPool(true, 7).Generate(26)
	for _, c := range alphabet {
		assert.Contains(t, got, string(c))
	}
}

func TestLetterPoolOverflow(t *testing.T) {
	got := NewSeededLetterPool(false, 3).Generate(30)
	assert.Len(t, got, 30)
	assert.Equal(t, strings.Repeat(string(overflowLetter), 4), got[26:])
}

func TestLetterPoolNegativeLength(t *testing.T) {
	assert.Equal(t, "", NewLetterPool(true).Generate(-1))
}
