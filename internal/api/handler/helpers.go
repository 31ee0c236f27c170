package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"memeshare/internal/api/middleware"
	"memeshare/internal/common"
	"memeshare/internal/domain/model"
)

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request payload: %v: %w", err, common.ErrBadRequest)
	}
	return nil
}

// idParam parses a numeric path parameter. Range checks are left to the services.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, common.ErrBadRequest)
	}
	return id, nil
}

func currentUser(r *http.Request) (int64, error) {
	id, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return 0, fmt.Errorf("missing user context: %w", common.ErrUnauthorized)
	}
	return id, nil
}

func respondCreated(w http.ResponseWriter, payload interface{}) {
	common.RespondWithJSON(w, http.StatusCreated, payload)
}

func respondOK(w http.ResponseWriter, payload interface{}) {
	common.RespondWithJSON(w, http.StatusOK, payload)
}

// requireOwner allows the owner of a resource, or an admin, through.
func requireOwner(r *http.Request, ownerID int64) error {
	caller, err := currentUser(r)
	if err != nil {
		return err
	}
	if role, _ := middleware.GetUserRoleFromContext(r.Context()); caller != ownerID && role != model.RoleNameAdmin {
		return fmt.Errorf("user %d does not own this resource: %w", caller, common.ErrForbidden)
	}
	return nil
}
