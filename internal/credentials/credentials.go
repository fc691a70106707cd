// Package credentials generates the one-time credential pair handed to a
// reporter at submission time: a human-readable case code and a random
// access secret. Generation is pure; uniqueness of the case code is the
// caller's responsibility (insert and retry on collision).
package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Both alphabets exclude visually ambiguous glyphs (I/O, 0/O, 1/l) so that
// credentials survive being read aloud or copied by hand.
const (
	caseCodeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	secretAlphabet  = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
)

// DefaultSecretLength is used when the configured length is not positive.
const DefaultSecretLength = 12

// Generator produces case codes and access secrets from crypto/rand.
type Generator struct {
	secretLength int
}

// NewGenerator builds a generator issuing secrets of the given length.
func NewGenerator(secretLength int) *Generator {
	if secretLength <= 0 {
		secretLength = DefaultSecretLength
	}
	return &Generator{secretLength: secretLength}
}

// Issue returns a fresh case code and plaintext secret. The secret is shown
// to the reporter exactly once and must never be persisted or logged.
func (g *Generator) Issue() (caseCode, secret string, err error) {
	caseCode, err = g.CaseCode()
	if err != nil {
		return "", "", err
	}
	secret, err = g.Secret()
	if err != nil {
		return "", "", err
	}
	return caseCode, secret, nil
}

// CaseCode returns an identifier of the form WH-###-AAA: three decimal
// digits (100-999) followed by three letters from the reduced alphabet.
func (g *Generator) CaseCode() (string, error) {
	n, err := randInt(900)
	if err != nil {
		return "", err
	}
	letters, err := randomString(caseCodeLetters, 3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("WH-%03d-%s", 100+n, letters), nil
}

// Secret returns a random access secret. This is the sole authentication
// factor for a report, so the randomness source must be cryptographic.
func (g *Generator) Secret() (string, error) {
	return randomString(secretAlphabet, g.secretLength)
}

func randomString(alphabet string, length int) (string, error) {
	out := make([]byte, length)
	for i := range out {
		idx, err := randInt(len(alphabet))
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx]
	}
	return string(out), nil
}

func randInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(n.Int64()), nil
}
