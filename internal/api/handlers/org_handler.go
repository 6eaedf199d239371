package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/troopops/task-tracker/internal/models"
	"github.com/troopops/task-tracker/internal/repository"
	"github.com/troopops/task-tracker/internal/service"
)

type RankRequestBody struct {
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
}

type SLARequestBody struct {
	Priority          string `json:"priority"`
	ResponseHours     int    `json:"response_hours"`
	ReminderIntervals string `json:"reminder_intervals"`
	EscalationEnabled bool   `json:"escalation_enabled"`
}

type OrgHandler struct {
	orgService *service.OrgService
}

func NewOrgHandler(orgService *service.OrgService) *OrgHandler {
	return &OrgHandler{orgService: orgService}
}

func (h *OrgHandler) ListRanks(w http.ResponseWriter, r *http.Request) {
	ranks, err := h.orgService.ListRanks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error listing ranks: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ranks": ranks})
}

func (h *OrgHandler) CreateRank(w http.ResponseWriter, r *http.Request) {
	var reqBody RankRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	rank, err := h.orgService.CreateRank(reqBody.Name, reqBody.OrderIndex)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error creating rank: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"rank": rank})
}

func (h *OrgHandler) UpdateRank(w http.ResponseWriter, r *http.Request) {
	var reqBody RankRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	rank, err := h.orgService.UpdateRank(r.PathValue("id"), reqBody.Name, reqBody.OrderIndex)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Rank not found")
			return
		}
		writeError(w, http.StatusBadRequest, "Error updating rank: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rank": rank})
}

func (h *OrgHandler) DeleteRank(w http.ResponseWriter, r *http.Request) {
	if err := h.orgService.DeleteRank(r.PathValue("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Rank not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting rank: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Rank deleted"})
}

func (h *OrgHandler) ListSLASettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.orgService.ListSLASettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error listing SLA settings: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sla_settings": settings})
}

func (h *OrgHandler) UpsertSLASetting(w http.ResponseWriter, r *http.Request) {
	var reqBody SLARequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	setting, err := h.orgService.UpsertSLASetting(models.SLASetting{
		Priority:          models.TaskPriority(reqBody.Priority),
		ResponseHours:     reqBody.ResponseHours,
		ReminderIntervals: reqBody.ReminderIntervals,
		EscalationEnabled: reqBody.EscalationEnabled,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error saving SLA setting: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sla_setting": setting})
}
