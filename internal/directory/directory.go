// Package directory is the user-directory collaborator boundary. The
// moderation core only ever talks to the Directory interface; the GORM
// implementation below is the in-process default and a remote client can
// replace it without touching the core.
package directory

import (
	"context"
	"errors"
	"time"

	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found in directory")

type Directory interface {
	// Exists checks that a report target actually exists before a report is
	// accepted against it.
	Exists(ctx context.Context, kind models.TargetKind, id string) (bool, error)

	// RoleOf returns the directory role for a user ("user", "moderator",
	// "admin").
	RoleOf(ctx context.Context, userID uuid.UUID) (string, error)

	// Suspend sets the account state to suspended until the given time, or
	// banned outright when until is nil. Calling it again with the same
	// arguments is a no-op, which is what makes enforcement retry safe.
	Suspend(ctx context.Context, userID uuid.UUID, until *time.Time) error
}

type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) Exists(ctx context.Context, kind models.TargetKind, id string) (bool, error) {
	var count int64
	if kind == models.TargetUser {
		userID, err := uuid.Parse(id)
		if err != nil {
			return false, nil
		}
		err = d.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", userID).Count(&count).Error
		return count > 0, err
	}

	err := d.db.WithContext(ctx).Model(&models.Content{}).
		Where("id = ? AND kind = ?", id, kind).Count(&count).Error
	return count > 0, err
}

func (d *GormDirectory) RoleOf(ctx context.Context, userID uuid.UUID) (string, error) {
	var user models.User
	if err := d.db.WithContext(ctx).Select("role").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return user.Role, nil
}

func (d *GormDirectory) Suspend(ctx context.Context, userID uuid.UUID, until *time.Time) error {
	status := models.AccountBanned
	if until != nil {
		status = models.AccountSuspended
	}

	result := d.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"status":          status,
			"suspended_until": until,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
