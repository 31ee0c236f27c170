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

type TagHandler struct {
	stores repository.StoreFactory
}

func NewTagHandler(stores repository.StoreFactory) *TagHandler {
	return &TagHandler{stores: stores}
}

type tagRequest struct {
	TagName string `json:"tag_name"`
}

func (h *TagHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listTags)
	r.Get("/{id}", h.getTag)
	r.Get("/{id}/memes", h.listMemes)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Post("/", h.createTag)
		auth.Put("/{id}", h.renameTag)
		auth.With(middleware.AdminOnly).Delete("/{id}", h.deleteTag)
	})
}

// listTags lists all tags, or looks one up with ?name=.
func (h *TagHandler) listTags(w http.ResponseWriter, r *http.Request) {
	tags := service.NewTagService(h.stores())
	if name := r.URL.Query().Get("name"); name != "" {
		tag, err := tags.GetByName(r.Context(), name)
		if err != nil {
			common.RespondWithErr(w, err)
			return
		}
		respondOK(w, []model.Tag{*tag})
		return
	}
	all, err := tags.GetAll(r.Context())
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, all)
}

func (h *TagHandler) getTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	tag, err := service.NewTagService(h.stores()).GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, tag)
}

func (h *TagHandler) listMemes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	links, err := service.NewMemeTagService(h.stores()).GetByTagID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, links)
}

func (h *TagHandler) createTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	tag := &model.Tag{TagName: req.TagName}
	if err := service.NewTagService(h.stores()).Create(r.Context(), tag); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, tag)
}

func (h *TagHandler) renameTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	tag, err := service.NewTagService(h.stores()).Rename(r.Context(), id, req.TagName)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, tag)
}

func (h *TagHandler) deleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewTagService(h.stores()).Delete(r.Context(), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}
