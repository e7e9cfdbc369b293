package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storage-reservation-backend/internal/model"
)

// CreateUser registers a new account. Role flags are normalized before
// the row is written.
func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for existing user: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("user %q: %w", u.Email, ErrDuplicate)
	}

	u.NormalizeRoles()
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %q: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID returns one account by id.
func (s *gormStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByEmail returns one account by email.
func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user %q: %w", email, err)
	}
	return &user, nil
}

// ListUsers returns all accounts.
func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("email").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies a sparse account update with role normalization.
func (s *gormStore) UpdateUser(ctx context.Context, id int64, patch UserPatch) (*model.User, error) {
	var updated model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load user %d: %w", id, err)
		}

		if patch.Username != nil {
			user.Username = *patch.Username
		}
		if patch.FirstName != nil {
			user.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			user.LastName = *patch.LastName
		}
		if patch.IsAdmin != nil {
			user.IsAdmin = *patch.IsAdmin
		}
		if patch.IsStorageHandler != nil {
			user.IsStorageHandler = *patch.IsStorageHandler
		}
		if patch.EmailsActivated != nil {
			user.EmailsActivated = *patch.EmailsActivated
		}
		user.NormalizeRoles()

		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to update user %d: %w", id, err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdatePassword replaces an account's password hash. A user picking
// their own password also clears the temporary-password flag.
func (s *gormStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":        passwordHash,
			"must_change_password": false,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update password for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetTemporaryPassword replaces an account's password with a generated
// one and flags the account so the next login demands a change.
func (s *gormStore) SetTemporaryPassword(ctx context.Context, email, passwordHash string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "email = ?", email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %q: %w", email, ErrNotFound)
			}
			return fmt.Errorf("failed to load user %q: %w", email, err)
		}
		if err := tx.Model(&user).Updates(map[string]any{
			"password_hash":        passwordHash,
			"must_change_password": true,
		}).Error; err != nil {
			return fmt.Errorf("failed to set temporary password for %q: %w", email, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account.
func (s *gormStore) DeleteUser(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListHandlerEmails returns the addresses of storage handlers who have
// not opted out of email.
func (s *gormStore) ListHandlerEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("is_storage_handler = ? AND emails_activated = ?", true, true).
		Pluck("email", &emails).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list handler emails: %w", err)
	}
	return emails, nil
}
