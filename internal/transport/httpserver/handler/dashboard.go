package handler

import (
	"net/http"

	"family-hub-go/internal/domain/dashboard"
	"family-hub-go/internal/transport/httpserver/middleware"
)

type preferenceResponse struct {
	ShowPendingMaintenance  bool `json:"show_pending_maintenance"`
	ShowEquipmentStats      bool `json:"show_equipment_stats"`
	ShowCostAnalysis        bool `json:"show_cost_analysis"`
	ShowUpcomingMaintenance bool `json:"show_upcoming_maintenance"`
	DaysToAlert             int  `json:"days_to_alert"`
}

func toPreferenceResponse(p *dashboard.Preference) preferenceResponse {
	return preferenceResponse{
		ShowPendingMaintenance:  p.ShowPendingMaintenance,
		ShowEquipmentStats:      p.ShowEquipmentStats,
		ShowCostAnalysis:        p.ShowCostAnalysis,
		ShowUpcomingMaintenance: p.ShowUpcomingMaintenance,
		DaysToAlert:             p.DaysToAlert,
	}
}

func (h *Handlers) GetDashboardPreference(w http.ResponseWriter, r *http.Request) {
	account := middleware.UserFrom(r.Context())
	preference, err := h.dashboard.GetPreference(r.Context(), account.ID)
	if err != nil {
		h.respondError(w, err, "get dashboard preference failed")
		return
	}
	writeJSON(w, http.StatusOK, toPreferenceResponse(preference))
}

type preferenceUpdateRequest struct {
	ShowPendingMaintenance  *bool `json:"show_pending_maintenance"`
	ShowEquipmentStats      *bool `json:"show_equipment_stats"`
	ShowCostAnalysis        *bool `json:"show_cost_analysis"`
	ShowUpcomingMaintenance *bool `json:"show_upcoming_maintenance"`
	DaysToAlert             *int  `json:"days_to_alert"`
}

func (h *Handlers) UpdateDashboardPreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	account := middleware.UserFrom(r.Context())
	preference, err := h.dashboard.UpdatePreference(r.Context(), account.ID, dashboard.PreferenceUpdate{
		ShowPendingMaintenance:  req.ShowPendingMaintenance,
		ShowEquipmentStats:      req.ShowEquipmentStats,
		ShowCostAnalysis:        req.ShowCostAnalysis,
		ShowUpcomingMaintenance: req.ShowUpcomingMaintenance,
		DaysToAlert:             req.DaysToAlert,
	})
	if err != nil {
		h.respondError(w, err, "update dashboard preference failed")
		return
	}
	writeJSON(w, http.StatusOK, toPreferenceResponse(preference))
}

func (h *Handlers) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summarize(r.Context(), scopeFrom(r))
	if err != nil {
		h.respondError(w, err, "dashboard summary failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
