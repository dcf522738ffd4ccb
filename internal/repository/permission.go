package repository

import (
	"context"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// PermissionRepository defines persistence operations for permissions and
// their assignment to users.
type PermissionRepository interface {
	HasPermission(ctx context.Context, userID uint, codename string) (bool, error)
	Grant(ctx context.Context, userID uint, codenames ...string) error
	EnsureCodenames(ctx context.Context, codenames ...string) error
}

type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository returns a new PermissionRepository implementation.
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) HasPermission(ctx context.Context, userID uint, codename string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_permissions").
		Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
		Where("user_permissions.user_id = ? AND permissions.codename = ?", userID, codename).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Grant assigns the named permissions to the user, creating any permission
// rows that do not exist yet. Already-granted codenames are left alone.
func (r *permissionRepository) Grant(ctx context.Context, userID uint, codenames ...string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, codename := range codenames {
			var perm models.Permission
			if err := tx.Where("codename = ?", codename).
				FirstOrCreate(&perm, models.Permission{Codename: codename}).Error; err != nil {
				return err
			}
			user := models.User{ID: userID}
			if err := tx.Model(&user).Association("Permissions").Append(&perm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// EnsureCodenames creates permission rows for every codename that is missing.
func (r *permissionRepository) EnsureCodenames(ctx context.Context, codenames ...string) error {
	for _, codename := range codenames {
		var perm models.Permission
		if err := r.db.WithContext(ctx).
			Where("codename = ?", codename).
			FirstOrCreate(&perm, models.Permission{Codename: codename}).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}
