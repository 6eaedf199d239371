package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/troopops/task-tracker/internal/models"
	"github.com/troopops/task-tracker/internal/repository"
	"github.com/troopops/task-tracker/internal/service"
)

type TaskRequestBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	DueDate     *string  `json:"due_date"`
	AssigneeIDs []string `json:"assignee_ids"`
}

type UpdateStatusRequestBody struct {
	Status string `json:"status"`
}

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, err
	}
	utc := t.UTC()
	return &utc, nil
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var reqBody TaskRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	dueDate, err := parseDueDate(reqBody.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid due_date: "+err.Error())
		return
	}

	task, notifications, err := h.taskService.CreateTask(r.Context(), service.CreateTaskInput{
		Title:       reqBody.Title,
		Description: reqBody.Description,
		Priority:    models.TaskPriority(reqBody.Priority),
		Status:      models.TaskStatus(reqBody.Status),
		DueDate:     dueDate,
		CreatedBy:   session.ID,
		AssigneeIDs: reqBody.AssigneeIDs,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error creating task: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"task":          task,
		"notifications": notifications,
	})
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	tasks, err := h.taskService.ListTasks(session.ID, session.IsAdmin())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error listing tasks: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.GetTask(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error getting task: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var reqBody TaskRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	dueDate, err := parseDueDate(reqBody.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid due_date: "+err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(r.PathValue("id"), service.UpdateTaskInput{
		Title:       reqBody.Title,
		Description: reqBody.Description,
		Priority:    models.TaskPriority(reqBody.Priority),
		Status:      models.TaskStatus(reqBody.Status),
		DueDate:     dueDate,
		AssigneeIDs: reqBody.AssigneeIDs,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusBadRequest, "Error updating task: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var reqBody UpdateStatusRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	task, err := h.taskService.UpdateStatus(r.PathValue("id"), models.TaskStatus(reqBody.Status))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusBadRequest, "Error updating status: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.DeleteTask(r.PathValue("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting task: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Task deleted"})
}
