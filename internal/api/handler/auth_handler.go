package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"memeshare/internal/app/service"
	"memeshare/internal/common"
	"memeshare/internal/domain/repository"
)

type AuthHandler struct {
	stores repository.StoreFactory
}

func NewAuthHandler(stores repository.StoreFactory) *AuthHandler {
	return &AuthHandler{stores: stores}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
}

func (h *AuthHandler) auth() *service.AuthService {
	return service.NewServices(h.stores()).Auth
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	resp, err := h.auth().Signup(r.Context(), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	resp, err := h.auth().Login(r.Context(), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, resp)
}
