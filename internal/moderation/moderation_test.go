package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	clean bool
	err   error
	calls int
}

func (s *stubChecker) Check(context.Context, string) (bool, error) {
	s.calls++
	return s.clean, s.err
}

func TestWordList(t *testing.T) {
	wl := NewWordList("badger")
	tests := map[string]bool{
		"Really Useful Nap":  true,
		"what the SHIT":      false,
		"$h1t happens":       false,
		"honey badger":       false,
		"shitake mushrooms":  true,
		"":                   true,
		"Dancing Over Grass": true,
	}
	for text, want := range tests {
		got, err := wl.Check(context.Background(), text)
		assert.NoError(t, err)
		assert.Equal(t, want, got, text)
	}
}

func TestChainStopsAtFirstFlag(t *testing.T) {
	flag := &stubChecker{clean: false}
	after := &stubChecker{clean: true}
	assert.False(t, Chain{flag, after}.IsClean(context.Background(), "x"))
	assert.Equal(t, 0, after.calls)
}

func TestChainSkipsFailingBackends(t *testing.T) {
	broken := &stubChecker{err: errors.New("down")}
	ok := &stubChecker{clean: true}
	assert.True(t, Chain{broken, ok}.IsClean(context.Background(), "x"))
	assert.Equal(t, 1, ok.calls)
	assert.True(t, Chain{}.IsClean(context.Background(), "anything"))
}
