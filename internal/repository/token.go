package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rsconstruction/constructhub-api/internal/repository/dao"
)

var ErrRefreshTokenNotFound = dao.ErrRefreshTokenNotFound

type RefreshTokenDAO interface {
	Insert(ctx context.Context, token dao.RefreshToken) (dao.RefreshToken, error)
	FindByID(ctx context.Context, id string) (dao.RefreshToken, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID uint, at time.Time) error
}

// StoredRefreshToken is the persisted side of a refresh token: the ID and a
// hash of the signed token, never the token itself.
type StoredRefreshToken struct {
	ID        string
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
}

type TokenRepository struct {
	dao RefreshTokenDAO
}

func NewTokenRepository(dao RefreshTokenDAO) *TokenRepository {
	return &TokenRepository{
		dao: dao,
	}
}

func (r *TokenRepository) Store(ctx context.Context, token StoredRefreshToken) error {
	_, err := r.dao.Insert(ctx, dao.RefreshToken{
		ID:        token.ID,
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return nil
}

func (r *TokenRepository) Find(ctx context.Context, id string) (StoredRefreshToken, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return StoredRefreshToken{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return StoredRefreshToken{
		ID:        found.ID,
		UserID:    found.UserID,
		TokenHash: found.TokenHash,
		ExpiresAt: found.ExpiresAt,
		Revoked:   found.RevokedAt != nil,
	}, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, id string) error {
	if err := r.dao.Revoke(ctx, id, time.Now()); err != nil {
		return fmt.Errorf("r.dao.Revoke -> %w", err)
	}

	return nil
}

func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID uint) error {
	if err := r.dao.RevokeAllForUser(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("r.dao.RevokeAllForUser -> %w", err)
	}

	return nil
}
