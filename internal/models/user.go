package models

import "time"

type User struct {
	ID             string    `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"full_name"`
	TroopRank      string    `db:"troop_rank" json:"troop_rank"`
	Role           string    `db:"role" json:"role"`
	CanCreateTasks bool      `db:"can_create_tasks" json:"can_create_tasks"`
	CanDeleteTasks bool      `db:"can_delete_tasks" json:"can_delete_tasks"`
	CanManageUsers bool      `db:"can_manage_users" json:"can_manage_users"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

// Session is the subset of User stored in the session cookie.
type Session struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	TroopRank      string `json:"troop_rank"`
	Role           string `json:"role"`
	CanCreateTasks bool   `json:"can_create_tasks"`
	CanDeleteTasks bool   `json:"can_delete_tasks"`
	CanManageUsers bool   `json:"can_manage_users"`
}

func (s Session) IsAdmin() bool {
	return s.Role == "admin"
}

func NewSession(u User) Session {
	return Session{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		TroopRank:      u.TroopRank,
		Role:           u.Role,
		CanCreateTasks: u.CanCreateTasks,
		CanDeleteTasks: u.CanDeleteTasks,
		CanManageUsers: u.CanManageUsers,
	}
}
