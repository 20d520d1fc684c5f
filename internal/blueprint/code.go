package blueprint

import (
	"math/rand"

	"github.com/ugaemi/facilitygen/internal/mapgen"
)

const (
	codeLength = 4
	maxRetries = 100
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// GenerateCode draws a 4-letter share code from rng, retrying while the code
// is already taken. A nil rng uses the package-level source.
func GenerateCode(rng mapgen.Rand, taken map[string]bool) string {
	if rng == nil {
		rng = globalRand{}
	}

	code := drawCode(rng)
	for i := 0; i < maxRetries && taken[code]; i++ {
		code = drawCode(rng)
	}
	// 26^4 codes; giving up after maxRetries only happens on a nearly full store.
	return code
}

// ValidCode reports whether s looks like a share code.
func ValidCode(s string) bool {
	if len(s) != codeLength {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func drawCode(rng mapgen.Rand) string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(b)
}
