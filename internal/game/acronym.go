package game

import (
	"math/rand"
	"sync"
	"time"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// overflowLetter fills requests longer than the alphabet.
const overflowLetter = '?'

// relative English letter frequencies, A..Z
var letterWeights = [26]float64{
	8.2, 1.5, 2.8, 4.3, 12.7, 2.2, 2.0, 6.1, 7.0, 0.15, 0.77, 4.0, 2.4,
	6.7, 7.5, 1.9, 0.095, 6.0, 6.3, 9.1, 2.8, 0.98, 2.4, 0.15, 2.0, 0.074,
}

type AcronymGenerator interface {
	Generate(length int) string
}

// LetterPool draws distinct uppercase letters, optionally weighted toward
// common English letters. Safe for concurrent use.
type LetterPool struct {
	weighted bool

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewLetterPool(weighted bool) *LetterPool {
	return NewSeededLetterPool(weighted, time.Now().UnixNano())
}

func NewSeededLetterPool(weighted bool, seed int64) *LetterPool {
	return &LetterPool{weighted: weighted, rnd: rand.New(rand.NewSource(seed))}
}

func (lp *LetterPool) Generate(length int) string {
	if length <= 0 {
		return ""
	}
	pool := []byte(alphabet)
	weights := make([]float64, len(pool))
	for i := range weights {
		if lp.weighted {
			weights[i] = letterWeights[i]
		} else {
			weights[i] = 1
		}
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()

	out := make([]byte, 0, length)
	for len(out) < length {
		if len(pool) == 0 {
			out = append(out, overflowLetter)
			continue
		}
		i := lp.pick(weights)
		out = append(out, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
		weights = append(weights[:i], weights[i+1:]...)
	}
	return string(out)
}

func (lp *LetterPool) pick(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := lp.rnd.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}
