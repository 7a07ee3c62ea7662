package moderation

import (
	"context"
	"strings"
	"unicode"
)

var defaultWords = []string{
	"fuck", "fucking", "shit", "bitch", "cunt", "asshole", "bastard",
	"dick", "pussy", "whore", "slut", "nigger", "faggot", "retard",
}

// WordList flags text containing any listed word, ignoring case and
// punctuation and undoing the usual digit-for-letter swaps.
type WordList struct {
	words map[string]struct{}
}

func NewWordList(extra ...string) *WordList {
	wl := &WordList{words: make(map[string]struct{}, len(defaultWords)+len(extra))}
	for _, w := range append(defaultWords, extra...) {
		if w = normalize(strings.TrimSpace(w)); w != "" {
			wl.words[w] = struct{}{}
		}
	}
	return wl
}

func (wl *WordList) Check(_ context.Context, text string) (bool, error) {
	for _, tok := range strings.FieldsFunc(normalize(text), func(r rune) bool { return !unicode.IsLetter(r) }) {
		if _, bad := wl.words[tok]; bad {
			return false, nil
		}
	}
	return true, nil
}

var leet = strings.NewReplacer("0", "o", "1", "i", "3", "e", "4", "a", "5", "s", "7", "t", "@", "a", "$", "s")

func normalize(s string) string {
	return leet.Replace(strings.ToLower(s))
}
