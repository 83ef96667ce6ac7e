package token

import (
	"strings"
	"testing"
	"time"

	"local-market/internal/data/entity"
	"local-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return NewIssuer(utils.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func TestIssue_ClaimsRoundTrip(t *testing.T) {
	issuer := newTestIssuer()
	userID := uuid.New()

	pair, err := issuer.Issue(userID, "feirante@example.com", entity.RoleSeller)
	require.NoError(t, err)

	access, err := issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, access.ID)
	assert.Equal(t, "feirante@example.com", access.Email)
	assert.Equal(t, entity.RoleSeller, access.Role)

	refresh, err := issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refresh.ID)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestVerify_SecretsAreNotInterchangeable(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.Issue(uuid.New(), "a@example.com", entity.RoleAdmin)
	require.NoError(t, err)

	_, err = issuer.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = issuer.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Expired(t *testing.T) {
	issuer := newTestIssuer()
	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	pair, err := issuer.Issue(uuid.New(), "a@example.com", entity.RoleClient)
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(time.Hour) }

	_, err = issuer.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = issuer.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestVerify_Tampered(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.Issue(uuid.New(), "a@example.com", entity.RoleClient)
	require.NoError(t, err)

	other, err := issuer.Issue(uuid.New(), "b@example.com", entity.RoleAdmin)
	require.NoError(t, err)

	// claims of one token under the signature of another
	parts := strings.Split(pair.AccessToken, ".")
	otherParts := strings.Split(other.AccessToken, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]
	_, err = issuer.VerifyAccess(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = issuer.VerifyAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssue_ReissueYieldsDistinctTokens(t *testing.T) {
	issuer := newTestIssuer()
	fixed := time.Now()
	issuer.now = func() time.Time { return fixed }
	userID := uuid.New()

	first, err := issuer.Issue(userID, "a@example.com", entity.RoleClient)
	require.NoError(t, err)
	second, err := issuer.Issue(userID, "a@example.com", entity.RoleClient)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
}
