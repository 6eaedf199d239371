package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/troopops/task-tracker/internal/repository"
	"github.com/troopops/task-tracker/internal/service"
)

type UserRequestBody struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	TroopRank      string `json:"troop_rank"`
	Role           string `json:"role"`
	CanCreateTasks bool   `json:"can_create_tasks"`
	CanDeleteTasks bool   `json:"can_delete_tasks"`
	CanManageUsers bool   `json:"can_manage_users"`
}

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (b UserRequestBody) toInput() service.UserInput {
	return service.UserInput{
		Username:       b.Username,
		Password:       b.Password,
		Email:          b.Email,
		FullName:       b.FullName,
		TroopRank:      b.TroopRank,
		Role:           b.Role,
		CanCreateTasks: b.CanCreateTasks,
		CanDeleteTasks: b.CanDeleteTasks,
		CanManageUsers: b.CanManageUsers,
	}
}

func conflictMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return "This username is already taken. Please choose a different username.", true
	case errors.Is(err, repository.ErrEmailTaken):
		return "This email address is already registered. Please use a different email.", true
	default:
		return "", false
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var reqBody UserRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	user, err := h.userService.CreateUser(reqBody.toInput())
	if err != nil {
		if msg, ok := conflictMessage(err); ok {
			writeError(w, http.StatusConflict, msg)
			return
		}
		writeError(w, http.StatusBadRequest, "Error creating user: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error listing users: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var reqBody UserRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	user, err := h.userService.UpdateUser(r.PathValue("id"), reqBody.toInput())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		if msg, ok := conflictMessage(err); ok {
			writeError(w, http.StatusConflict, msg)
			return
		}
		writeError(w, http.StatusBadRequest, "Error updating user: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteUser(r.PathValue("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting user: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "User deleted"})
}
