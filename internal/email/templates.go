package email

import (
	"fmt"
	"html"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/troopops/task-tracker/internal/models"
)

// ReminderInput carries everything needed to render one due-date reminder.
// Rendering is deterministic: same input, same output.
type ReminderInput struct {
	AssigneeName string
	Title        string
	DueDate      time.Time
	DaysLeft     int
	Final        bool
	TaskURL      string
}

func ReminderSubject(title string, daysLeft int, final bool) string {
	if final {
		return fmt.Sprintf("Final Reminder: %q is due today", title)
	}
	plural := "s"
	if daysLeft == 1 {
		plural = ""
	}
	return fmt.Sprintf("Reminder: %q due in %d day%s", title, daysLeft, plural)
}

func ReminderHTML(in ReminderInput) string {
	urgencyColor := "#f59e0b"
	headline := "Task Reminder"
	// The phrase derives from DaysLeft so it always matches the subject's
	// day count, and the output never depends on the wall clock.
	message := fmt.Sprintf("This is a reminder that your task is due in %d days.", in.DaysLeft)
	if in.Final {
		urgencyColor = "#dc2626"
		headline = "Final Reminder"
		message = "Your task is due TODAY. Immediate action required."
	} else if in.DaysLeft == 1 {
		urgencyColor = "#ea580c"
		message = "Your task is due tomorrow. Please complete it as soon as possible."
	}

	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: %s; border-bottom: 2px solid %s; padding-bottom: 10px;">%s</h2>
  <p>Hello %s,</p>
  <p>%s</p>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid %s;">
    <h3 style="margin: 0 0 10px 0; color: #333;">%s</h3>
    <p style="margin: 0;"><strong>Due Date:</strong> %s</p>
  </div>
  %s
  <p style="color: #9ca3af; font-size: 12px;">Task Tracker &bull; Automated Notification</p>
</div>`,
		urgencyColor, urgencyColor, headline,
		html.EscapeString(in.AssigneeName),
		message,
		urgencyColor,
		html.EscapeString(in.Title),
		in.DueDate.Format("Monday, 02 Jan 2006"),
		callToAction(in.TaskURL, "update the task status"),
	)
}

func callToAction(taskURL, fallbackAction string) string {
	if taskURL == "" {
		return fmt.Sprintf("<p>Please log in to the task tracker to %s.</p>", fallbackAction)
	}
	return fmt.Sprintf(
		`<p><a href="%s" style="display: inline-block; background: #2563eb; color: white; padding: 10px 20px; border-radius: 6px; text-decoration: none;">View Task Details</a></p>`,
		html.EscapeString(taskURL),
	)
}

// AssignmentInput carries everything needed to render a new-assignment
// notice. Now anchors the relative due-date phrase; rendering depends only
// on the fields here, never on the wall clock.
type AssignmentInput struct {
	AssigneeName string
	AssignedBy   string
	Title        string
	Description  string
	Priority     models.TaskPriority
	DueDate      *time.Time
	Now          time.Time
	TaskURL      string
}

func AssignmentSubject(title string) string {
	return fmt.Sprintf("New Task Assigned: %s", title)
}

func AssignmentHTML(in AssignmentInput) string {
	description := in.Description
	if description == "" {
		description = "No description provided"
	}

	dueLine := "No due date"
	if in.DueDate != nil {
		dueLine = fmt.Sprintf("%s (%s)", in.DueDate.Format("Monday, 02 Jan 2006"),
			humanize.RelTime(*in.DueDate, in.Now, "ago", "from now"))
	}

	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb; border-bottom: 2px solid #e5e7eb; padding-bottom: 10px;">New Task Assigned</h2>
  <p>Hello %s,</p>
  <p>You have been assigned a new task by %s:</p>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid %s;">
    <h3 style="margin: 0 0 10px 0; color: #333;">%s</h3>
    <p style="margin: 0 0 10px 0;"><strong>Description:</strong> %s</p>
    <p style="margin: 0 0 10px 0;"><strong>Priority:</strong> <span style="color: %s; text-transform: capitalize;">%s</span></p>
    <p style="margin: 0;"><strong>Due Date:</strong> %s</p>
  </div>
  <p>Reminder schedule: 3 days before, 1 day before, and on the due date.</p>
  %s
  <p style="color: #9ca3af; font-size: 12px;">Task Tracker &bull; Automated Notification</p>
</div>`,
		html.EscapeString(in.AssigneeName),
		html.EscapeString(in.AssignedBy),
		priorityColor(in.Priority),
		html.EscapeString(in.Title),
		html.EscapeString(description),
		priorityColor(in.Priority),
		in.Priority,
		dueLine,
		callToAction(in.TaskURL, "view more details"),
	)
}

func priorityColor(p models.TaskPriority) string {
	switch p {
	case models.PriorityHigh:
		return "#dc2626"
	case models.PriorityMedium:
		return "#ea580c"
	case models.PriorityLow:
		return "#16a34a"
	default:
		return "#6b7280"
	}
}
