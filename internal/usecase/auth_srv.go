package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"local-market/internal/data/entity"
	"local-market/internal/data/repository"
	"local-market/internal/dto/request"
	"local-market/pkg/metrics"
	"local-market/pkg/token"
	"local-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher is satisfied by *utils.Hasher.
type CredentialHasher interface {
	HashPassword(password string) (string, error)
	CheckPasswordHash(password, hash string) bool
	HashToken(token string) (string, error)
	CheckTokenHash(token, hash string) bool
}

// TokenIssuer is satisfied by *token.Issuer.
type TokenIssuer interface {
	Issue(userID uuid.UUID, email string, role entity.UserRole) (*token.Pair, error)
}

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*token.Pair, error)
	Signin(ctx context.Context, req *request.SigninRequest) (*token.Pair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	RefreshTokens(ctx context.Context, userID uuid.UUID, refreshToken string) (*token.Pair, error)
}

type authService struct {
	users   repository.UserRepository
	creator UserCreator
	hasher  CredentialHasher
	issuer  TokenIssuer
	log     *zap.Logger

	// absentHash is compared against when the email is unknown so both
	// signin failures cost one bcrypt comparison.
	absentOnce sync.Once
	absentHash string
}

func NewAuthService(
	users repository.UserRepository,
	creator UserCreator,
	hasher CredentialHasher,
	issuer TokenIssuer,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:   users,
		creator: creator,
		hasher:  hasher,
		issuer:  issuer,
		log:     log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*token.Pair, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.Any("errors", errs))
		metrics.AuthAttempts.WithLabelValues("signup", "invalid").Inc()
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	hashedPassword, err := s.hasher.HashPassword(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		metrics.AuthAttempts.WithLabelValues("signup", "invalid").Inc()
		return nil, fmt.Errorf("%w: password is too long", ErrValidation)
	}
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		metrics.AuthAttempts.WithLabelValues("signup", "error").Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	input := &NewUser{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashedPassword,
		Role:         req.Role,
	}
	if req.Client != nil {
		input.Cep = req.Client.Cep
	}
	if req.Seller != nil && req.Seller.Shop != nil {
		fairID, err := uuid.Parse(req.Seller.Shop.FairID)
		if err != nil {
			metrics.AuthAttempts.WithLabelValues("signup", "invalid").Inc()
			return nil, fmt.Errorf("%w: invalid fair ID", ErrValidation)
		}
		input.Shop = &NewShop{FairID: fairID, Name: req.Seller.Shop.Name}
	}

	user, err := s.creator.Create(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			metrics.AuthAttempts.WithLabelValues("signup", "conflict").Inc()
		case errors.Is(err, ErrValidation):
			metrics.AuthAttempts.WithLabelValues("signup", "invalid").Inc()
		default:
			metrics.AuthAttempts.WithLabelValues("signup", "error").Inc()
		}
		return nil, err
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("signup", "error").Inc()
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("signup", "success").Inc()
	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)

	return pair, nil
}

// Signin answers ErrAuth for both an unknown email and a wrong password.
func (s *authService) Signin(ctx context.Context, req *request.SigninRequest) (*token.Pair, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signin validation failed", zap.Any("errors", errs))
		metrics.AuthAttempts.WithLabelValues("signin", "invalid").Inc()
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		metrics.AuthAttempts.WithLabelValues("signin", "error").Inc()
		return nil, err
	}

	if user == nil {
		s.hasher.CheckPasswordHash(req.Password, s.unknownUserHash())
	}
	if user == nil || !s.hasher.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Signin denied", zap.String("email", req.Email))
		metrics.AuthAttempts.WithLabelValues("signin", "denied").Inc()
		return nil, ErrAuth
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("signin", "error").Inc()
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("signin", "success").Inc()
	s.log.Info("User signed in", zap.String("user_id", user.ID.String()))

	return pair, nil
}

// Logout is idempotent; a user without a stored hash is left as is.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		s.log.Error("Failed to clear refresh token", zap.Error(err), zap.String("user_id", userID.String()))
		metrics.AuthAttempts.WithLabelValues("logout", "error").Inc()
		return err
	}

	metrics.AuthAttempts.WithLabelValues("logout", "success").Inc()
	s.log.Info("User logged out", zap.String("user_id", userID.String()))
	return nil
}

// RefreshTokens rotates the pair. The stored hash is overwritten, so the
// presented token stops validating once this returns.
func (s *authService) RefreshTokens(ctx context.Context, userID uuid.UUID, refreshToken string) (*token.Pair, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user for refresh", zap.Error(err), zap.String("user_id", userID.String()))
		metrics.AuthAttempts.WithLabelValues("refresh", "error").Inc()
		return nil, err
	}

	if user == nil || user.RefreshTokenHash == nil || refreshToken == "" {
		s.log.Warn("Refresh denied, no active session", zap.String("user_id", userID.String()))
		metrics.AuthAttempts.WithLabelValues("refresh", "denied").Inc()
		return nil, ErrAuth
	}

	if !s.hasher.CheckTokenHash(refreshToken, *user.RefreshTokenHash) {
		s.log.Warn("Refresh denied, token mismatch", zap.String("user_id", userID.String()))
		metrics.AuthAttempts.WithLabelValues("refresh", "denied").Inc()
		return nil, ErrAuth
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("refresh", "error").Inc()
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("refresh", "success").Inc()
	s.log.Info("Tokens refreshed", zap.String("user_id", user.ID.String()))

	return pair, nil
}

func (s *authService) unknownUserHash() string {
	s.absentOnce.Do(func() {
		hash, err := s.hasher.HashPassword(uuid.NewString())
		if err != nil {
			s.log.Error("Failed to prepare placeholder hash", zap.Error(err))
			return
		}
		s.absentHash = hash
	})
	return s.absentHash
}

func (s *authService) issueAndStore(ctx context.Context, user *entity.User) (*token.Pair, error) {
	pair, err := s.issuer.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		s.log.Error("Failed to issue tokens", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	hash, err := s.hasher.HashToken(pair.RefreshToken)
	if err != nil {
		s.log.Error("Failed to hash refresh token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrAuth
		}
		s.log.Error("Failed to store refresh token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, err
	}

	return pair, nil
}
