// Package user provides CRUD operations for users.
package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tindevelopers/tinadmin-saas-base/internal/db/models"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserEmailEmpty is returned when attempting to create a user without an email.
	ErrUserEmailEmpty = errors.New("user email cannot be empty")
	// ErrUserAlreadyExists is returned when the id or email is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a user with its role by id.
func Get(db *gorm.DB, id string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	result := db.Preload("Role").First(&u, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// Create stores a user without a role. An empty id is replaced by a new UUID;
// pass the identity provider's subject to keep ids aligned with upstream.
func Create(db *gorm.DB, id, email, fullName string, tenantID *string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrUserEmailEmpty
	}

	var count int64
	query := db.Model(&models.User{}).Where("email = ?", email)
	if id != "" {
		query = query.Or("id = ?", id)
	}
	if err := query.Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserAlreadyExists
	}

	u := &models.User{
		ID:       id,
		Active:   true,
		Email:    email,
		FullName: fullName,
		TenantID: tenantID,
	}

	if err := db.Create(u).Error; err != nil {
		return nil, err
	}

	return u, nil
}
