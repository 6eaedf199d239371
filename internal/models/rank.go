package models

type Rank struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	OrderIndex int    `db:"order_index" json:"order_index"`
}

// SLASetting holds the per-priority service-level configuration managed by
// administrators. ReminderIntervals is a comma-separated list of hours.
type SLASetting struct {
	ID                string       `db:"id" json:"id"`
	Priority          TaskPriority `db:"priority" json:"priority"`
	ResponseHours     int          `db:"response_hours" json:"response_hours"`
	ReminderIntervals string       `db:"reminder_intervals" json:"reminder_intervals"`
	EscalationEnabled bool         `db:"escalation_enabled" json:"escalation_enabled"`
}
