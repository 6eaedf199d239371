package models

import "time"

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusAssigned   TaskStatus = "assigned"
	StatusInProgress TaskStatus = "in_progress"
	StatusOnHold     TaskStatus = "on_hold"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusOnHold, StatusCompleted:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ReminderKind identifies which due-date threshold a reminder belongs to.
type ReminderKind string

const (
	Reminder3Days ReminderKind = "3d"
	Reminder1Day  ReminderKind = "1d"
	ReminderDue   ReminderKind = "due"
)

type TaskAssignee struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"full_name" json:"full_name"`
	Email string `db:"email" json:"email"`
}

type Task struct {
	ID          string       `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Status      TaskStatus   `db:"status" json:"status"`
	Priority    TaskPriority `db:"priority" json:"priority"`
	DueDate     *time.Time   `db:"due_date" json:"due_date"`
	CreatedBy   string       `db:"created_by" json:"created_by"`

	// One flag per reminder threshold. Set true at most once, never reset.
	Reminder3DSent  bool `db:"reminder_3d_sent" json:"reminder_3d_sent"`
	Reminder1DSent  bool `db:"reminder_1d_sent" json:"reminder_1d_sent"`
	ReminderDueSent bool `db:"reminder_due_sent" json:"reminder_due_sent"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Assignees []TaskAssignee `db:"-" json:"assignees,omitempty"`
}

// ReminderSent reports whether the flag for the given kind is already set.
func (t Task) ReminderSent(kind ReminderKind) bool {
	switch kind {
	case Reminder3Days:
		return t.Reminder3DSent
	case Reminder1Day:
		return t.Reminder1DSent
	case ReminderDue:
		return t.ReminderDueSent
	default:
		return false
	}
}
