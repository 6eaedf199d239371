package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/troopops/task-tracker/internal/client"
	"github.com/troopops/task-tracker/internal/email"
	"github.com/troopops/task-tracker/internal/models"
)

// reminderWindow is how far ahead of now a sweep looks for due tasks.
const reminderWindow = 72 * time.Hour

// markAttemptedAsSent controls the flag-commit policy: when true, a reminder
// interval is marked sent after delivery was attempted for every recipient,
// even if some or all sends failed. This trades guaranteed delivery for
// never re-spamming recipients whose send did go through.
const markAttemptedAsSent = true

// ReminderStore is the slice of the task store the sweep needs.
type ReminderStore interface {
	DueWithin(start, end time.Time) ([]models.Task, error)
	AssigneesForTasks(taskIDs []string) (map[string][]models.TaskAssignee, error)
	MarkReminderSent(id string, kind models.ReminderKind) error
}

// ReminderService scans for tasks approaching their due date and notifies
// assignees at the 3-day, 1-day and due-day thresholds, at most once each.
// The service is stateless; it assumes at most one sweep runs at a time.
type ReminderService struct {
	store   ReminderStore
	mailer  client.Mailer
	baseURL string
}

func NewReminderService(store ReminderStore, mailer client.Mailer, baseURL string) *ReminderService {
	return &ReminderService{store: store, mailer: mailer, baseURL: baseURL}
}

// RunSweep scans tasks due within the look-ahead window, delivers whichever
// reminder each one is due for, and records the sent flag. It returns the
// number of delivery attempts. A storage failure aborts the sweep; a delivery
// failure for one recipient never blocks the rest.
func (s *ReminderService) RunSweep(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.store.DueWithin(now, now.Add(reminderWindow))
	if err != nil {
		return 0, fmt.Errorf("fetch due tasks: %w", err)
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	taskIDs := make([]string, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}

	assigneesByTask, err := s.store.AssigneesForTasks(taskIDs)
	if err != nil {
		return 0, fmt.Errorf("fetch assignees: %w", err)
	}

	attempted := 0
	for _, task := range tasks {
		kind, daysLeft, ok := reminderKindFor(task, now)
		if !ok {
			continue
		}

		failures := 0
		for _, assignee := range assigneesByTask[task.ID] {
			if assignee.Email == "" {
				continue
			}

			msg := client.Email{
				To:      assignee.Email,
				Subject: email.ReminderSubject(task.Title, daysLeft, kind == models.ReminderDue),
				HTML: email.ReminderHTML(email.ReminderInput{
					AssigneeName: assignee.Name,
					Title:        task.Title,
					DueDate:      task.DueDate.UTC(),
					DaysLeft:     daysLeft,
					Final:        kind == models.ReminderDue,
					TaskURL:      taskURL(s.baseURL, task.ID),
				}),
			}

			attempted++
			if _, err := s.mailer.Send(ctx, msg); err != nil {
				failures++
				log.Printf("reminder delivery failed: task=%s to=%s: %v", task.ID, assignee.Email, err)
			}
		}

		if markAttemptedAsSent || failures == 0 {
			if err := s.store.MarkReminderSent(task.ID, kind); err != nil {
				return attempted, fmt.Errorf("mark reminder sent for task %s: %w", task.ID, err)
			}
		}
	}

	return attempted, nil
}

// reminderKindFor classifies a task against now. daysLeft uses ceiling
// division, so a task due in 2.1 days counts as 3 days out. Each task maps
// to at most one kind per sweep; a kind whose flag is already set, or a
// boundary the sweep schedule skipped over, yields nothing.
func reminderKindFor(task models.Task, now time.Time) (models.ReminderKind, int, bool) {
	if task.DueDate == nil {
		return "", 0, false
	}

	daysLeft := int(math.Ceil(task.DueDate.Sub(now).Hours() / 24))

	var kind models.ReminderKind
	switch {
	case daysLeft == 3 && !task.ReminderSent(models.Reminder3Days):
		kind = models.Reminder3Days
	case daysLeft == 1 && !task.ReminderSent(models.Reminder1Day):
		kind = models.Reminder1Day
	case daysLeft == 0 && !task.ReminderSent(models.ReminderDue):
		kind = models.ReminderDue
	default:
		return "", daysLeft, false
	}

	return kind, daysLeft, true
}
