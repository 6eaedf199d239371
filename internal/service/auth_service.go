package service

import (
	"errors"
	"fmt"

	"github.com/troopops/task-tracker/internal/models"
	"github.com/troopops/task-tracker/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	userRepo *repository.UserRepository
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login checks the credentials and returns the session payload stored in the
// cookie. Credentials are compared as stored; hashing is out of scope here.
func (s *AuthService) Login(username, password string) (models.Session, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Session{}, ErrInvalidCredentials
		}
		return models.Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.PasswordHash != password {
		return models.Session{}, ErrInvalidCredentials
	}

	return models.NewSession(user), nil
}

// Verify re-reads the user behind a session so stale cookies surface fresh
// permission flags.
func (s *AuthService) Verify(userID string) (models.User, error) {
	return s.userRepo.GetByID(userID)
}
