package repository

import "github.com/tjautosupply/autoparts-api/internal/domain/entity"

// UserRepository is the persistence port for users.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	UpdatePassword(userID, passwordHash string) error
}
