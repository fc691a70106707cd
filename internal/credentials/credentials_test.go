package credentials

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var caseCodePattern = regexp.MustCompile(`^WH-\d{3}-[A-HJ-NP-Z]{3}$`)

func TestCaseCodeFormat(t *testing.T) {
	gen := NewGenerator(12)
	for i := 0; i < 1000; i++ {
		code, err := gen.CaseCode()
		require.NoError(t, err)
		require.Regexp(t, caseCodePattern, code)
	}
}

func TestCaseCodeExcludesAmbiguousLetters(t *testing.T) {
	gen := NewGenerator(12)
	for i := 0; i < 1000; i++ {
		code, err := gen.CaseCode()
		require.NoError(t, err)
		require.NotContains(t, code, "I")
		require.NotContains(t, code, "O")
	}
}

func TestSecretAlphabetAndLength(t *testing.T) {
	gen := NewGenerator(12)
	for i := 0; i < 1000; i++ {
		secret, err := gen.Secret()
		require.NoError(t, err)
		require.Len(t, secret, 12)
		for _, c := range secret {
			require.Contains(t, secretAlphabet, string(c), "secret %q contains %q", secret, c)
		}
	}
}

func TestSecretRespectsConfiguredLength(t *testing.T) {
	gen := NewGenerator(20)
	secret, err := gen.Secret()
	require.NoError(t, err)
	require.Len(t, secret, 20)

	// Non-positive lengths fall back to the default.
	gen = NewGenerator(0)
	secret, err = gen.Secret()
	require.NoError(t, err)
	require.Len(t, secret, DefaultSecretLength)
}

func TestSecretEntropySanity(t *testing.T) {
	gen := NewGenerator(12)
	seen := make(map[string]struct{}, 10000)
	var prev string
	for i := 0; i < 10000; i++ {
		secret, err := gen.Secret()
		require.NoError(t, err)
		require.NotEqual(t, prev, secret, "consecutive secrets identical at trial %d", i)
		seen[secret] = struct{}{}
		prev = secret
	}
	require.Len(t, seen, 10000, "expected no duplicate secrets across 10000 trials")
}

func TestIssueReturnsBothParts(t *testing.T) {
	gen := NewGenerator(12)
	code, secret, err := gen.Issue()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(code, "WH-"))
	require.Len(t, secret, 12)
}
