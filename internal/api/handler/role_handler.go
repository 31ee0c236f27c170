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

// RoleHandler serves role and role-assignment management; every route is admin-only.
type RoleHandler struct {
	stores repository.StoreFactory
}

func NewRoleHandler(stores repository.StoreFactory) *RoleHandler {
	return &RoleHandler{stores: stores}
}

type roleRequest struct {
	RoleName    string  `json:"role_name"`
	Description *string `json:"description"`
}

type userRoleRequest struct {
	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`
}

func (h *RoleHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Get("/", h.listRoles)
	r.Post("/", h.createRole)
	r.Get("/{id}", h.getRole)
	r.Put("/{id}", h.updateRole)
	r.Delete("/{id}", h.deleteRole)
}

func (h *RoleHandler) RegisterUserRoleRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Get("/", h.listUserRoles)
	r.Post("/", h.assignRole)
	r.Delete("/{id}", h.deleteUserRole)
	r.Delete("/", h.revokeRole)
}

func (h *RoleHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := service.NewRoleService(h.stores()).GetAll(r.Context())
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, roles)
}

func (h *RoleHandler) getRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	role, err := service.NewRoleService(h.stores()).GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, role)
}

func (h *RoleHandler) createRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	role := &model.Role{RoleName: req.RoleName, Description: req.Description}
	if err := service.NewRoleService(h.stores()).Create(r.Context(), role); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, role)
}

func (h *RoleHandler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	role := &model.Role{ID: id, RoleName: req.RoleName, Description: req.Description}
	if err := service.NewRoleService(h.stores()).Update(r.Context(), role); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, role)
}

func (h *RoleHandler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewRoleService(h.stores()).Delete(r.Context(), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *RoleHandler) listUserRoles(w http.ResponseWriter, r *http.Request) {
	rows, err := service.NewUserRoleService(h.stores()).GetAll(r.Context())
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, rows)
}

func (h *RoleHandler) assignRole(w http.ResponseWriter, r *http.Request) {
	var req userRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	ur, err := service.NewUserRoleService(h.stores()).AssignRole(r.Context(), req.UserID, req.RoleID)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, ur)
}

func (h *RoleHandler) revokeRole(w http.ResponseWriter, r *http.Request) {
	var req userRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewUserRoleService(h.stores()).RevokeRole(r.Context(), req.UserID, req.RoleID); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *RoleHandler) deleteUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewUserRoleService(h.stores()).Delete(r.Context(), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}
