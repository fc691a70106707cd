package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, exp, err := tm.Generate("admin-1", domain.PrincipalAdmin)
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "admin-1", claims.SubjectID)
	require.Equal(t, domain.PrincipalAdmin, claims.Kind)
}

func TestTokenKindsAreDisjoint(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	adminToken, _, err := tm.Generate("admin-1", domain.PrincipalAdmin)
	require.NoError(t, err)
	reportToken, _, err := tm.Generate("report-1", domain.PrincipalReport)
	require.NoError(t, err)

	adminClaims, err := tm.Parse(adminToken)
	require.NoError(t, err)
	reportClaims, err := tm.Parse(reportToken)
	require.NoError(t, err)

	require.NotEqual(t, adminClaims.Kind, reportClaims.Kind)
	require.Equal(t, domain.PrincipalReport, reportClaims.Kind)
}

func TestParseRejectsWrongSignature(t *testing.T) {
	tm := NewTokenManager("secret-a", time.Hour)
	other := NewTokenManager("secret-b", time.Hour)

	token, _, err := tm.Generate("report-1", domain.PrincipalReport)
	require.NoError(t, err)

	_, err = other.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := tm.Generate("report-1", domain.PrincipalReport)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	_, err := tm.Parse("not-a-token")
	require.Error(t, err)
}
