package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"memeshare/internal/app/service"
	"memeshare/internal/common"
	"memeshare/internal/domain/repository"
)

type StatsHandler struct {
	stores repository.StoreFactory
}

func NewStatsHandler(stores repository.StoreFactory) *StatsHandler {
	return &StatsHandler{stores: stores}
}

func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/top", h.topViewed)
}

// topViewed returns the ?n= most viewed memes' stats, 10 by default.
func (h *StatsHandler) topViewed(w http.ResponseWriter, r *http.Request) {
	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "n must be a number")
			return
		}
		n = parsed
	}
	top, err := service.NewUploadStatService(h.stores()).GetTopViewed(r.Context(), n)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, top)
}
