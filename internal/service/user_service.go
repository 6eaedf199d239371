package service

import (
	"fmt"

	"github.com/troopops/task-tracker/internal/models"
	"github.com/troopops/task-tracker/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UserInput struct {
	Username       string
	Password       string
	Email          string
	FullName       string
	TroopRank      string
	Role           string
	CanCreateTasks bool
	CanDeleteTasks bool
	CanManageUsers bool
}

func (s *UserService) CreateUser(input UserInput) (models.User, error) {
	if input.Username == "" || input.Password == "" {
		return models.User{}, fmt.Errorf("username and password are required")
	}
	if input.FullName == "" {
		return models.User{}, fmt.Errorf("full name is required")
	}
	if input.Role == "" {
		input.Role = "member"
	}

	user := models.User{
		Username:       input.Username,
		PasswordHash:   input.Password,
		Email:          input.Email,
		FullName:       input.FullName,
		TroopRank:      input.TroopRank,
		Role:           input.Role,
		CanCreateTasks: input.CanCreateTasks,
		CanDeleteTasks: input.CanDeleteTasks,
		CanManageUsers: input.CanManageUsers,
	}
	if err := s.userRepo.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.List()
}

func (s *UserService) UpdateUser(id string, input UserInput) (models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return models.User{}, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.FullName != "" {
		user.FullName = input.FullName
	}
	user.Email = input.Email
	user.TroopRank = input.TroopRank
	if input.Role != "" {
		user.Role = input.Role
	}
	user.CanCreateTasks = input.CanCreateTasks
	user.CanDeleteTasks = input.CanDeleteTasks
	user.CanManageUsers = input.CanManageUsers

	// Update leaves the password alone unless a new one was supplied.
	user.PasswordHash = input.Password

	if err := s.userRepo.Update(&user); err != nil {
		return models.User{}, err
	}
	return s.userRepo.GetByID(id)
}

func (s *UserService) DeleteUser(id string) error {
	return s.userRepo.Delete(id)
}
