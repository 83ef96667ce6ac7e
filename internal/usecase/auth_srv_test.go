package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"local-market/internal/data/entity"
	"local-market/internal/dto/request"
	"local-market/pkg/geocode"
	"local-market/pkg/token"
	"local-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	store  *memStore
	tx     *fakeTx
	geo    *fakeGeocoder
	issuer *token.Issuer
	hasher *utils.Hasher
	svc    AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	store := newMemStore()
	tx := &fakeTx{store: store}
	geo := &fakeGeocoder{coords: geocode.Coordinates{Latitude: -15.61, Longitude: -47.65}}
	issuer := token.NewIssuer(utils.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	hasher := utils.NewHasher(bcrypt.MinCost)
	creator := NewUserCreator(tx, tx.factory, geo, time.Second, zap.NewNop())

	return &authFixture{
		store:  store,
		tx:     tx,
		geo:    geo,
		issuer: issuer,
		hasher: hasher,
		svc:    NewAuthService(newFakeRepos(store).User, creator, hasher, issuer, zap.NewNop()),
	}
}

func (f *authFixture) userByEmail(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := newFakeRepos(f.store).User.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func adminSignup(email string) *request.SignupRequest {
	return &request.SignupRequest{
		Email:    email,
		Name:     "Maria Admin",
		Password: "s3cret-pass",
		Role:     entity.RoleAdmin,
	}
}

func TestSignup_ReturnsPairMatchingCreatedUser(t *testing.T) {
	f := newAuthFixture(t)

	pair, err := f.svc.Signup(context.Background(), adminSignup("maria@example.com"))
	require.NoError(t, err)
	require.NotNil(t, pair)

	user := f.userByEmail(t, "maria@example.com")

	access, err := f.issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, access.ID)
	assert.Equal(t, user.Email, access.Email)
	assert.Equal(t, entity.RoleAdmin, access.Role)

	refresh, err := f.issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refresh.ID)

	require.NotNil(t, user.RefreshTokenHash)
	assert.True(t, f.hasher.CheckTokenHash(pair.RefreshToken, *user.RefreshTokenHash))
	assert.True(t, f.hasher.CheckPasswordHash("s3cret-pass", user.PasswordHash))
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, adminSignup("dup@example.com"))
	require.NoError(t, err)

	other := &request.SignupRequest{
		Email:    "dup@example.com",
		Name:     "Someone Else",
		Password: "different-pass",
		Role:     entity.RoleClient,
		Client:   &request.ClientData{Cep: "72880558"},
	}
	_, err = f.svc.Signup(ctx, other)
	require.ErrorIs(t, err, ErrConflict)

	assert.Len(t, f.store.users, 1)
	assert.Empty(t, f.store.clients)
}

func TestSignup_ValidationRejectedBeforeWrites(t *testing.T) {
	f := newAuthFixture(t)

	req := adminSignup("not-an-email")
	_, err := f.svc.Signup(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)

	clientWithoutCep := adminSignup("c@example.com")
	clientWithoutCep.Role = entity.RoleClient
	_, err = f.svc.Signup(context.Background(), clientWithoutCep)
	require.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, f.store.users)
	assert.Zero(t, f.tx.commits)
}

func TestSignin_CorrectCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, adminSignup("ana@example.com"))
	require.NoError(t, err)

	pair, err := f.svc.Signin(ctx, &request.SigninRequest{Email: "ana@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	user := f.userByEmail(t, "ana@example.com")
	require.NotNil(t, user.RefreshTokenHash)
	assert.True(t, f.hasher.CheckTokenHash(pair.RefreshToken, *user.RefreshTokenHash))
}

func TestSignin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, adminSignup("ana@example.com"))
	require.NoError(t, err)

	_, wrongPassword := f.svc.Signin(ctx, &request.SigninRequest{Email: "ana@example.com", Password: "wrong-pass"})
	_, unknownEmail := f.svc.Signin(ctx, &request.SigninRequest{Email: "ghost@example.com", Password: "s3cret-pass"})

	require.ErrorIs(t, wrongPassword, ErrAuth)
	require.ErrorIs(t, unknownEmail, ErrAuth)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, "Access Denied", wrongPassword.Error())
}

func TestRefreshTokens_RotatesStoredHash(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.svc.Signup(ctx, adminSignup("rot@example.com"))
	require.NoError(t, err)
	user := f.userByEmail(t, "rot@example.com")

	second, err := f.svc.RefreshTokens(ctx, user.ID, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	user = f.userByEmail(t, "rot@example.com")
	require.NotNil(t, user.RefreshTokenHash)
	assert.False(t, f.hasher.CheckTokenHash(first.RefreshToken, *user.RefreshTokenHash))
	assert.True(t, f.hasher.CheckTokenHash(second.RefreshToken, *user.RefreshTokenHash))

	_, err = f.svc.RefreshTokens(ctx, user.ID, first.RefreshToken)
	require.ErrorIs(t, err, ErrAuth)
}

func TestRefreshTokens_DeniedWithoutSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.svc.Signup(ctx, adminSignup("out@example.com"))
	require.NoError(t, err)
	user := f.userByEmail(t, "out@example.com")

	require.NoError(t, f.svc.Logout(ctx, user.ID))

	_, err = f.svc.RefreshTokens(ctx, user.ID, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAuth)

	_, err = f.svc.RefreshTokens(ctx, uuid.New(), pair.RefreshToken)
	require.ErrorIs(t, err, ErrAuth)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, adminSignup("twice@example.com"))
	require.NoError(t, err)
	user := f.userByEmail(t, "twice@example.com")

	for range 2 {
		require.NoError(t, f.svc.Logout(ctx, user.ID))
		assert.Nil(t, f.userByEmail(t, "twice@example.com").RefreshTokenHash)
	}
}

func TestLogout_PropagatesStorageError(t *testing.T) {
	f := newAuthFixture(t)
	f.store.failOn["user.clear"] = errStorage

	err := f.svc.Logout(context.Background(), uuid.New())
	require.ErrorIs(t, err, errStorage)
}

func TestSignup_OverlongPasswordIsValidationError(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"ascii over 72 bytes", strings.Repeat("a", 80)},
		// 40 characters pass the length rule but are 80 bytes for bcrypt
		{"multibyte over 72 bytes", strings.Repeat("é", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			req := adminSignup("long@example.com")
			req.Password = tt.password

			_, err := f.svc.Signup(context.Background(), req)
			require.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, f.store.users)
			assert.Zero(t, f.tx.commits)
		})
	}
}

// countingHasher records how many password comparisons were made.
type countingHasher struct {
	*utils.Hasher
	compares int
}

func (h *countingHasher) CheckPasswordHash(password, hash string) bool {
	h.compares++
	return h.Hasher.CheckPasswordHash(password, hash)
}

func TestSignin_UnknownEmailStillComparesHash(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, adminSignup("known@example.com"))
	require.NoError(t, err)

	hasher := &countingHasher{Hasher: f.hasher}
	creator := NewUserCreator(f.tx, f.tx.factory, f.geo, time.Second, zap.NewNop())
	svc := NewAuthService(newFakeRepos(f.store).User, creator, hasher, f.issuer, zap.NewNop())

	_, err = svc.Signin(ctx, &request.SigninRequest{Email: "ghost@example.com", Password: "s3cret-pass"})
	require.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, 1, hasher.compares)

	_, err = svc.Signin(ctx, &request.SigninRequest{Email: "known@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, 2, hasher.compares)
}
