package token

import (
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
)

func newTestService() *Service {
	return NewService("access-secret", "refresh-secret", 5*time.Minute, 2*time.Hour)
}

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	svc := newTestService()

	access, err := svc.IssueAccess("alice@example.com", "Alice Doe")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)

	ident, err := svc.Verify(access, KindAccess)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", ident.Email)
	assert.Equal(t, "Alice Doe", ident.Names)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	svc := newTestService()

	// A refresh token must not verify as an access token and vice versa;
	// the two families are signed with different secrets.
	refresh, err := svc.IssueRefresh("alice@example.com", "Alice Doe")
	assert.NoError(t, err)

	_, err = svc.Verify(refresh, KindAccess)
	assert.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeInvalidToken))

	access, err := svc.IssueAccess("alice@example.com", "Alice Doe")
	assert.NoError(t, err)

	_, err = svc.Verify(access, KindRefresh)
	assert.Error(t, err)
}

func TestAccessTokenExpiry(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	svc := newTestService().WithClock(func() time.Time { return clock })

	access, err := svc.IssueAccess("alice@example.com", "Alice Doe")
	assert.NoError(t, err)

	// Still valid just before the lifetime elapses.
	clock = issuedAt.Add(4 * time.Minute)
	_, err = svc.Verify(access, KindAccess)
	assert.NoError(t, err)

	// Expired once the lifetime has passed.
	clock = issuedAt.Add(6 * time.Minute)
	_, err = svc.Verify(access, KindAccess)
	assert.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeInvalidToken))
}

func TestRefreshTokenOutlivesAccessToken(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	svc := newTestService().WithClock(func() time.Time { return clock })

	access, err := svc.IssueAccess("alice@example.com", "Alice Doe")
	assert.NoError(t, err)
	refresh, err := svc.IssueRefresh("alice@example.com", "Alice Doe")
	assert.NoError(t, err)

	clock = issuedAt.Add(1 * time.Hour)
	_, err = svc.Verify(access, KindAccess)
	assert.Error(t, err)
	_, err = svc.Verify(refresh, KindRefresh)
	assert.NoError(t, err)

	clock = issuedAt.Add(3 * time.Hour)
	_, err = svc.Verify(refresh, KindRefresh)
	assert.Error(t, err)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := newTestService()

	access, err := svc.IssueAccess("alice@example.com", "Alice Doe")
	assert.NoError(t, err)

	tampered := access[:len(access)-2] + "xx"
	_, err = svc.Verify(tampered, KindAccess)
	assert.Error(t, err)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	other := NewService("other-access", "other-refresh", 5*time.Minute, 2*time.Hour)
	foreign, err := other.IssueAccess("mallory@example.com", "Mallory")
	assert.NoError(t, err)

	svc := newTestService()
	_, err = svc.Verify(foreign, KindAccess)
	assert.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeInvalidToken))
}

func TestIssuedTokensAreDistinct(t *testing.T) {
	svc := newTestService()

	first, err := svc.IssueAccess("alice@example.com", "Alice Doe")
	assert.NoError(t, err)
	second, err := svc.IssueAccess("alice@example.com", "Alice Doe")
	assert.NoError(t, err)

	// Each token carries a fresh jti, so renewals are distinguishable.
	assert.NotEqual(t, first, second)
}

func TestTTLAccessorsMatchConfiguration(t *testing.T) {
	svc := newTestService()
	assert.Equal(t, 5*time.Minute, svc.AccessTTL())
	assert.Equal(t, 2*time.Hour, svc.RefreshTTL())
}
