package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/troopops/task-tracker/internal/models"
)

type SLARepository struct {
	db *sqlx.DB
}

func NewSLARepository(db *sqlx.DB) *SLARepository {
	return &SLARepository{db: db}
}

func (r *SLARepository) List() ([]models.SLASetting, error) {
	settings := []models.SLASetting{}
	err := r.db.Select(&settings, `
		SELECT id, priority, response_hours, reminder_intervals, escalation_enabled
		FROM sla_settings
		ORDER BY priority DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sla settings: %w", err)
	}
	return settings, nil
}

// Upsert writes the setting for its priority, replacing an existing row.
func (r *SLARepository) Upsert(setting *models.SLASetting) error {
	if setting.ID == "" {
		setting.ID = uuid.New().String()
	}
	_, err := r.db.Exec(`
		INSERT INTO sla_settings (id, priority, response_hours, reminder_intervals, escalation_enabled)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(priority) DO UPDATE SET
			response_hours = excluded.response_hours,
			reminder_intervals = excluded.reminder_intervals,
			escalation_enabled = excluded.escalation_enabled`,
		setting.ID, setting.Priority, setting.ResponseHours,
		setting.ReminderIntervals, setting.EscalationEnabled,
	)
	if err != nil {
		return fmt.Errorf("upsert sla setting: %w", err)
	}
	return nil
}
