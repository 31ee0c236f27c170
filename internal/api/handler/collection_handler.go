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

type CollectionHandler struct {
	stores repository.StoreFactory
}

func NewCollectionHandler(stores repository.StoreFactory) *CollectionHandler {
	return &CollectionHandler{stores: stores}
}

type collectionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

func (h *CollectionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCollections)
	r.Get("/{id}", h.getCollection)
	r.Get("/{id}/memes", h.listMemes)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Post("/", h.createCollection)
		auth.Put("/{id}", h.updateCollection)
		auth.Put("/{id}/visibility", h.setVisibility)
		auth.Delete("/{id}", h.deleteCollection)
		auth.Post("/{id}/memes/{memeID}", h.addMeme)
		auth.Delete("/{id}/memes/{memeID}", h.removeMeme)
	})
}

func (h *CollectionHandler) listCollections(w http.ResponseWriter, r *http.Request) {
	all, err := service.NewCollectionService(h.stores()).GetAll(r.Context())
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, all)
}

func (h *CollectionHandler) getCollection(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	c, err := service.NewCollectionService(h.stores()).GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, c)
}

func (h *CollectionHandler) listMemes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	ids, err := service.NewCollectionMemeService(h.stores()).GetMemeIDsInCollection(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, ids)
}

func (h *CollectionHandler) createCollection(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	c := &model.Collection{UserID: userID, Name: req.Name, Description: req.Description, IsPublic: req.IsPublic}
	if err := service.NewCollectionService(h.stores()).Create(r.Context(), c); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, c)
}

func (h *CollectionHandler) updateCollection(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	collections := service.NewCollectionService(h.stores())
	existing, err := h.owned(r, collections, id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	c := &model.Collection{ID: id, UserID: existing.UserID, Name: req.Name, Description: req.Description, IsPublic: req.IsPublic}
	if err := collections.Update(r.Context(), c); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, c)
}

func (h *CollectionHandler) setVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req visibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	collections := service.NewCollectionService(h.stores())
	if _, err := h.owned(r, collections, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	c, err := collections.SetVisibility(r.Context(), id, req.IsPublic)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, c)
}

func (h *CollectionHandler) deleteCollection(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	collections := service.NewCollectionService(h.stores())
	if _, err := h.owned(r, collections, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := collections.Delete(r.Context(), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *CollectionHandler) addMeme(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	memeID, err := idParam(r, "memeID")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	store := h.stores()
	if _, err := h.owned(r, service.NewCollectionService(store), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	item, err := service.NewCollectionMemeService(store).AddMemeToCollection(r.Context(), id, memeID)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, item)
}

func (h *CollectionHandler) removeMeme(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	memeID, err := idParam(r, "memeID")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	store := h.stores()
	if _, err := h.owned(r, service.NewCollectionService(store), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewCollectionMemeService(store).RemoveMemeFromCollection(r.Context(), id, memeID); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

// owned loads a collection the caller may modify.
func (h *CollectionHandler) owned(r *http.Request, collections *service.CollectionService, id int64) (*model.Collection, error) {
	c, err := collections.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(r, c.UserID); err != nil {
		return nil, err
	}
	return c, nil
}
