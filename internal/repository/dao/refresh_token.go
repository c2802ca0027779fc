package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshToken struct {
	ID        string `gorm:"primaryKey"` // uuid
	UserID    uint   `gorm:"not null;index"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TokenHash string `gorm:"not null"`
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time `gorm:"not null"`
}

type RefreshTokenDAO struct {
	db *gorm.DB
}

func NewRefreshTokenDAO(db *gorm.DB) *RefreshTokenDAO {
	return &RefreshTokenDAO{
		db: db,
	}
}

func (d *RefreshTokenDAO) Insert(ctx context.Context, token RefreshToken) (RefreshToken, error) {
	result := d.db.WithContext(ctx).Create(&token)
	if result.Error != nil {
		return RefreshToken{}, result.Error
	}

	return token, nil
}

func (d *RefreshTokenDAO) FindByID(ctx context.Context, id string) (RefreshToken, error) {
	var token RefreshToken

	result := d.db.WithContext(ctx).First(&token, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return RefreshToken{}, ErrRefreshTokenNotFound
		}

		return RefreshToken{}, result.Error
	}

	return token, nil
}

func (d *RefreshTokenDAO) Revoke(ctx context.Context, id string, at time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at)

	return result.Error
}

func (d *RefreshTokenDAO) RevokeAllForUser(ctx context.Context, userID uint, at time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at)

	return result.Error
}
