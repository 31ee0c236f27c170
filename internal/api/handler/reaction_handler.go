package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"memeshare/internal/api/middleware"
	"memeshare/internal/app/service"
	"memeshare/internal/common"
	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type ReactionHandler struct {
	stores repository.StoreFactory
}

func NewReactionHandler(stores repository.StoreFactory) *ReactionHandler {
	return &ReactionHandler{stores: stores}
}

type createReactionRequest struct {
	MemeID       int64  `json:"meme_id"`
	ReactionType string `json:"reaction_type"`
}

func (h *ReactionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}", h.getReaction)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Post("/", h.createReaction)
		auth.Delete("/{id}", h.deleteReaction)
	})
}

func (h *ReactionHandler) getReaction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	reaction, err := service.NewReactionService(h.stores()).GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, reaction)
}

func (h *ReactionHandler) createReaction(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req createReactionRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	reaction := &model.Reaction{MemeID: req.MemeID, UserID: userID, ReactionType: req.ReactionType}
	if err := service.NewReactionService(h.stores()).Create(r.Context(), reaction); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, reaction)
}

func (h *ReactionHandler) deleteReaction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	reactions := service.NewReactionService(h.stores())
	reaction, err := reactions.GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := requireOwner(r, reaction.UserID); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := reactions.Delete(r.Context(), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}
