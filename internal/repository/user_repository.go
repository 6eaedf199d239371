package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/troopops/task-tracker/internal/models"
)

var (
	ErrUsernameTaken = errors.New("repository: username already taken")
	ErrEmailTaken    = errors.New("repository: email already registered")
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, COALESCE(email, '') AS email,
	full_name, troop_rank, role, can_create_tasks, can_delete_tasks, can_manage_users, created_at`

func (r *UserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO users (id, username, password_hash, email, full_name, troop_rank, role,
		                   can_create_tasks, can_delete_tasks, can_manage_users, created_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, strings.TrimSpace(user.Email),
		user.FullName, user.TroopRank, user.Role,
		user.CanCreateTasks, user.CanDeleteTasks, user.CanManageUsers, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", uniqueConstraintError(err))
	}
	return nil
}

func (r *UserRepository) GetByID(id string) (models.User, error) {
	var user models.User
	err := r.db.Get(&user, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(username string) (models.User, error) {
	var user models.User
	err := r.db.Get(&user, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List() ([]models.User, error) {
	users := []models.User{}
	err := r.db.Select(&users, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update rewrites every editable field. An empty PasswordHash keeps the
// stored credential unchanged.
func (r *UserRepository) Update(user *models.User) error {
	query := `
		UPDATE users
		SET username = ?, email = NULLIF(?, ''), full_name = ?, troop_rank = ?, role = ?,
		    can_create_tasks = ?, can_delete_tasks = ?, can_manage_users = ?`
	args := []any{
		user.Username, strings.TrimSpace(user.Email), user.FullName, user.TroopRank, user.Role,
		user.CanCreateTasks, user.CanDeleteTasks, user.CanManageUsers,
	}
	if user.PasswordHash != "" {
		query += ", password_hash = ?"
		args = append(args, user.PasswordHash)
	}
	query += " WHERE id = ?"
	args = append(args, user.ID)

	res, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", uniqueConstraintError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// uniqueConstraintError maps sqlite unique violations onto friendly
// sentinels the handlers can surface to the caller.
func uniqueConstraintError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users.username"):
		return ErrUsernameTaken
	case strings.Contains(msg, "users.email"):
		return ErrEmailTaken
	default:
		return err
	}
}
