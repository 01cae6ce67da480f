package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bob-rietveld/unheard-v3/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByToken(ctx context.Context, tokenIdentifier string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("token_identifier = ?", tokenIdentifier).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, fmt.Errorf("get user by token: %w", err)
	}
	return &u, nil
}

// Upsert creates the user or refreshes profile fields, keyed by the opaque
// token identifier.
func (r *UserRepository) Upsert(ctx context.Context, u *models.User) error {
	var existing models.User
	err := r.db.WithContext(ctx).
		Where("token_identifier = ?", u.TokenIdentifier).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("upsert user lookup: %w", err)
		}
		if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
			return fmt.Errorf("upsert user insert: %w", err)
		}
		return nil
	}

	updates := map[string]any{}
	if u.Name != "" {
		updates["name"] = u.Name
	}
	if u.Email != "" {
		updates["email"] = u.Email
	}
	if u.AvatarURL != "" {
		updates["avatar_url"] = u.AvatarURL
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("upsert user update: %w", err)
		}
	}
	u.ID = existing.ID
	return nil
}
