package handlers

import (
	"net/http"
	"time"

	"github.com/troopops/task-tracker/internal/service"
)

// CronHandler is the trigger surface for the reminder sweep, hit by an
// external scheduler. When a secret is configured the caller must present it
// as a bearer token.
type CronHandler struct {
	reminderService *service.ReminderService
	secret          string
}

func NewCronHandler(reminderService *service.ReminderService, secret string) *CronHandler {
	return &CronHandler{reminderService: reminderService, secret: secret}
}

func (h *CronHandler) DueReminders(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		if r.Header.Get("Authorization") != "Bearer "+h.secret {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"ok":    false,
				"error": "Unauthorized",
			})
			return
		}
	}

	sent, err := h.reminderService.RunSweep(r.Context(), time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"sent": sent,
	})
}
