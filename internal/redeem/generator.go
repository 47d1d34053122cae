// Package redeem generates redemption codes for purchased units.
package redeem

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const (
	alphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	segmentLen   = 4
	segmentCount = 3
)

// Generator emits codes of the form XXXX-XXXX-XXXX where X is drawn from
// [A-Z0-9]. The entropy source is injectable so tests can be deterministic;
// the default is crypto/rand, which makes the ~36^12 code space collision
// probability negligible for any realistic deployment.
type Generator struct {
	entropy io.Reader
}

func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy substitutes the randomness source. Intended for tests.
func NewGeneratorWithEntropy(r io.Reader) *Generator {
	return &Generator{entropy: r}
}

// Code returns a single redemption code.
func (g *Generator) Code() (string, error) {
	buf := make([]byte, segmentLen*segmentCount)
	if _, err := io.ReadFull(g.entropy, buf); err != nil {
		return "", fmt.Errorf("failed to read entropy: %w", err)
	}

	var b strings.Builder
	b.Grow(segmentLen*segmentCount + segmentCount - 1)
	for i, c := range buf {
		if i > 0 && i%segmentLen == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(alphabet[int(c)%len(alphabet)])
	}
	return b.String(), nil
}

// Codes returns n codes guaranteed to be distinct from each other and from
// anything already present in seen. Generated codes are added to seen so one
// set can span all line items of an order.
func (g *Generator) Codes(n int, seen map[string]struct{}) ([]string, error) {
	if seen == nil {
		seen = make(map[string]struct{}, n)
	}
	codes := make([]string, 0, n)
	for len(codes) < n {
		code, err := g.Code()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}
