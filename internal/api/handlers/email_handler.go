package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/troopops/task-tracker/internal/client"
)

type SendEmailRequestBody struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// EmailHandler is the internal delivery surface. With no provider configured
// the mailer runs in dry-run mode and the response says so.
type EmailHandler struct {
	mailer     client.Mailer
	configured bool
	from       string
}

func NewEmailHandler(mailer client.Mailer, configured bool, from string) *EmailHandler {
	return &EmailHandler{mailer: mailer, configured: configured, from: from}
}

func (h *EmailHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var reqBody SendEmailRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "JSON error: " + err.Error(),
		})
		return
	}

	if reqBody.To == "" || reqBody.Subject == "" || reqBody.HTML == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Missing to/subject/html",
		})
		return
	}

	result, err := h.mailer.Send(r.Context(), client.Email{
		To:      reqBody.To,
		Subject: reqBody.Subject,
		HTML:    reqBody.HTML,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	response := map[string]any{"success": true}
	if result.DryRun {
		response["dryRun"] = true
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *EmailHandler) TestConfig(w http.ResponseWriter, r *http.Request) {
	mode := "dry-run"
	if h.configured {
		mode = "live"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"configured": h.configured,
		"mode":       mode,
		"from":       h.from,
	})
}
