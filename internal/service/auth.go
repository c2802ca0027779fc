package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rsconstruction/constructhub-api/internal/domain"
	"github.com/rsconstruction/constructhub-api/internal/pkg/jwthelper"
	"github.com/rsconstruction/constructhub-api/internal/repository"
)

var (
	ErrUserEmailExists     = repository.ErrUserEmailExists
	ErrWrongPassword       = errors.New("wrong password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type AuthTokenRepository interface {
	Store(ctx context.Context, token repository.StoredRefreshToken) error
	Find(ctx context.Context, id string) (repository.StoredRefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID uint) error
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	repo       AuthUserRepository
	tokens     AuthTokenRepository
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(repo AuthUserRepository, tokens AuthTokenRepository, signingKey string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		signingKey: []byte(signingKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	if err := s.checkEmailExists(ctx, user.Email); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = string(hash)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// IssueTokens creates a short-lived access token and a persisted, rotatable
// refresh token for the user.
func (s *AuthService) IssueTokens(ctx context.Context, user domain.User, userAgent string) (TokenPair, error) {
	access, err := jwthelper.GenerateToken(s.signingKey, user.ID, userAgent, s.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	tokenID := uuid.NewString()
	refresh, err := jwthelper.GenerateRefreshToken(s.signingKey, user.ID, tokenID, s.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("jwthelper.GenerateRefreshToken -> %w", err)
	}

	err = s.tokens.Store(ctx, repository.StoredRefreshToken{
		ID:        tokenID,
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("s.tokens.Store -> %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The used
// token is revoked so every refresh token works exactly once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, userAgent string) (domain.User, TokenPair, error) {
	claims, err := jwthelper.ParseRefreshToken(s.signingKey, refreshToken)
	if err != nil {
		return domain.User{}, TokenPair{}, ErrInvalidRefreshToken
	}

	stored, err := s.tokens.Find(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return domain.User{}, TokenPair{}, ErrInvalidRefreshToken
		}

		return domain.User{}, TokenPair{}, fmt.Errorf("s.tokens.Find -> %w", err)
	}

	if stored.Revoked || time.Now().After(stored.ExpiresAt) || stored.TokenHash != hashToken(refreshToken) {
		return domain.User{}, TokenPair{}, ErrInvalidRefreshToken
	}

	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		return domain.User{}, TokenPair{}, fmt.Errorf("s.tokens.Revoke -> %w", err)
	}

	user, err := s.repo.FindByID(ctx, stored.UserID)
	if err != nil {
		return domain.User{}, TokenPair{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	pair, err := s.IssueTokens(ctx, user, userAgent)
	if err != nil {
		return domain.User{}, TokenPair{}, fmt.Errorf("s.IssueTokens -> %w", err)
	}

	return user, pair, nil
}

// Logout revokes every refresh token the user holds.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("s.tokens.RevokeAllForUser -> %w", err)
	}

	return nil
}

func (s *AuthService) checkEmailExists(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return ErrUserEmailExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}
