package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"memeshare/internal/api/middleware"
	"memeshare/internal/app/service"
	"memeshare/internal/common"
	"memeshare/internal/domain/repository"
)

type UserHandler struct {
	stores repository.StoreFactory
}

func NewUserHandler(stores repository.StoreFactory) *UserHandler {
	return &UserHandler{stores: stores}
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
	r.Get("/{id}", h.getUser)
	r.Get("/{id}/memes", h.listMemes)
	r.Get("/{id}/collections", h.listCollections)
	r.Get("/{id}/collections/{slug}", h.getCollectionBySlug)
	r.Get("/{id}/roles", h.listRoleIDs)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Put("/{id}", h.updateUser)
		auth.With(middleware.AdminOnly).Delete("/{id}", h.deleteUser)
	})
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := service.NewUserService(h.stores()).GetAll(r.Context())
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, users)
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	user, err := service.NewUserService(h.stores()).GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, user)
}

// updateUser lets users edit their own profile; admins may edit anyone.
func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := requireOwner(r, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}

	users := service.NewUserService(h.stores())
	user, err := users.GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	user.Username = req.Username
	user.Email = req.Email
	if err := users.Update(r.Context(), user); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, user)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewUserService(h.stores()).Delete(r.Context(), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *UserHandler) listMemes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	memes, err := service.NewMemeService(h.stores()).GetByUserID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, memes)
}

func (h *UserHandler) listCollections(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	collections, err := service.NewCollectionService(h.stores()).GetByUserID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, collections)
}

func (h *UserHandler) getCollectionBySlug(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	c, err := service.NewCollectionService(h.stores()).GetByUserAndSlug(r.Context(), id, chi.URLParam(r, "slug"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, c)
}

func (h *UserHandler) listRoleIDs(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	ids, err := service.NewUserRoleService(h.stores()).GetRoleIDsForUser(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, ids)
}
