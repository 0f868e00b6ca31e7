package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/mika/watchlog/internal/api/middleware"
	"github.com/mika/watchlog/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := h.statsService.Overview(r.Context(), userID, time.Now().UTC())
	if err != nil {
		log.Printf("ERROR [stats.Overview] failed to compute stats: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
