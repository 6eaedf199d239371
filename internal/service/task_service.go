package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/troopops/task-tracker/internal/client"
	"github.com/troopops/task-tracker/internal/email"
	"github.com/troopops/task-tracker/internal/models"
	"github.com/troopops/task-tracker/internal/repository"
)

type TaskService struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
	mailer   client.Mailer
	baseURL  string
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	mailer client.Mailer,
	baseURL string,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		mailer:   mailer,
		baseURL:  baseURL,
	}
}

// taskURL builds the deep link embedded in notification emails. An empty
// base URL disables the link and the templates fall back to plain text.
func taskURL(baseURL, taskID string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/tasks/" + taskID
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	Status      models.TaskStatus
	DueDate     *time.Time
	CreatedBy   string
	AssigneeIDs []string
}

// NotificationResult reports the outcome of one assignment notification so
// the caller can decide what to surface. Delivery problems never fail the
// operation that triggered them.
type NotificationResult struct {
	Recipient string `json:"recipient"`
	Delivered bool   `json:"delivered"`
	DryRun    bool   `json:"dry_run,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CreateTask stores a new task and notifies every assignee that has an email
// address. The task is committed before any notification goes out; a failed
// send is reported in the results but does not undo the task.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (models.Task, []NotificationResult, error) {
	if input.Title == "" {
		return models.Task{}, nil, fmt.Errorf("title is required")
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.IsValid() {
		return models.Task{}, nil, fmt.Errorf("invalid priority: %q", input.Priority)
	}

	if input.Status == "" {
		if len(input.AssigneeIDs) > 0 {
			input.Status = models.StatusAssigned
		} else {
			input.Status = models.StatusPending
		}
	}
	if !input.Status.IsValid() {
		return models.Task{}, nil, fmt.Errorf("invalid status: %q", input.Status)
	}

	creator, err := s.userRepo.GetByID(input.CreatedBy)
	if err != nil {
		return models.Task{}, nil, fmt.Errorf("get creator: %w", err)
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.taskRepo.Create(&task, input.AssigneeIDs); err != nil {
		return models.Task{}, nil, err
	}

	results := s.notifyAssignees(ctx, task, creator)
	return task, results, nil
}

func (s *TaskService) notifyAssignees(ctx context.Context, task models.Task, creator models.User) []NotificationResult {
	now := time.Now().UTC()
	results := make([]NotificationResult, 0, len(task.Assignees))
	for _, assignee := range task.Assignees {
		if assignee.Email == "" {
			continue
		}

		msg := client.Email{
			To:      assignee.Email,
			Subject: email.AssignmentSubject(task.Title),
			HTML: email.AssignmentHTML(email.AssignmentInput{
				AssigneeName: assignee.Name,
				AssignedBy:   creator.FullName,
				Title:        task.Title,
				Description:  task.Description,
				Priority:     task.Priority,
				DueDate:      task.DueDate,
				Now:          now,
				TaskURL:      taskURL(s.baseURL, task.ID),
			}),
		}

		result := NotificationResult{Recipient: assignee.Email}
		sent, err := s.mailer.Send(ctx, msg)
		if err != nil {
			result.Error = err.Error()
			log.Printf("assignment notification failed: task=%s to=%s: %v", task.ID, assignee.Email, err)
		} else {
			result.Delivered = sent.Delivered
			result.DryRun = sent.DryRun
		}
		results = append(results, result)
	}
	return results
}

func (s *TaskService) GetTask(id string) (models.Task, error) {
	return s.taskRepo.GetTask(id)
}

func (s *TaskService) ListTasks(viewerID string, admin bool) ([]models.Task, error) {
	return s.taskRepo.ListTasks(viewerID, admin)
}

type UpdateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	Status      models.TaskStatus
	DueDate     *time.Time
	AssigneeIDs []string
}

func (s *TaskService) UpdateTask(id string, input UpdateTaskInput) (models.Task, error) {
	if input.Title == "" {
		return models.Task{}, fmt.Errorf("title is required")
	}
	if !input.Priority.IsValid() {
		return models.Task{}, fmt.Errorf("invalid priority: %q", input.Priority)
	}
	if !input.Status.IsValid() {
		return models.Task{}, fmt.Errorf("invalid status: %q", input.Status)
	}

	task, err := s.taskRepo.GetTask(id)
	if err != nil {
		return models.Task{}, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Priority = input.Priority
	task.Status = input.Status
	task.DueDate = input.DueDate

	if err := s.taskRepo.Update(&task, input.AssigneeIDs); err != nil {
		return models.Task{}, err
	}
	return s.taskRepo.GetTask(id)
}

func (s *TaskService) UpdateStatus(id string, status models.TaskStatus) (models.Task, error) {
	if !status.IsValid() {
		return models.Task{}, fmt.Errorf("invalid status: %q", status)
	}
	if err := s.taskRepo.UpdateStatus(id, status); err != nil {
		return models.Task{}, err
	}
	return s.taskRepo.GetTask(id)
}

func (s *TaskService) DeleteTask(id string) error {
	return s.taskRepo.Delete(id)
}
