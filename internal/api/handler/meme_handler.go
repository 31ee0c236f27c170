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

type MemeHandler struct {
	stores repository.StoreFactory
	// statEvents is set when stat increments are applied asynchronously.
	statEvents service.StatEventPublisher
}

func NewMemeHandler(stores repository.StoreFactory, statEvents service.StatEventPublisher) *MemeHandler {
	return &MemeHandler{stores: stores, statEvents: statEvents}
}

type memeRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImageURL    string  `json:"image_url"`
	IsPublic    *bool   `json:"is_public"`
}

type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

type reactionTypeRequest struct {
	ReactionType string `json:"reaction_type"`
}

type metadataRequest struct {
	FileSize int64  `json:"file_size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	MimeType string `json:"mime_type"`
}

func (h *MemeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listMemes)
	r.Get("/{id}", h.getMeme)
	r.Get("/{id}/tags", h.listTags)
	r.Get("/{id}/comments", h.listComments)
	r.Get("/{id}/thread", h.getThread)
	r.Get("/{id}/reactions", h.listReactions)
	r.Get("/{id}/reactions/counts", h.reactionCounts)
	r.Get("/{id}/metadata", h.getMetadata)
	r.Get("/{id}/stats", h.getStats)
	r.Post("/{id}/stats/{kind}", h.incrementStat)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Post("/", h.createMeme)
		auth.Put("/{id}", h.updateMeme)
		auth.Delete("/{id}", h.deleteMeme)
		auth.Put("/{id}/visibility", h.setVisibility)
		auth.Post("/{id}/tags/{tagID}", h.addTag)
		auth.Delete("/{id}/tags/{tagID}", h.removeTag)
		auth.Put("/{id}/reactions", h.updateReaction)
		auth.Delete("/{id}/reactions", h.removeReaction)
		auth.Post("/{id}/metadata", h.createMetadata)
		auth.Put("/{id}/metadata", h.updateMetadata)
		auth.Delete("/{id}/metadata", h.deleteMetadata)
		auth.Post("/{id}/stats", h.createStats)
	})
}

// listMemes returns every meme, or only public ones with ?public=true.
func (h *MemeHandler) listMemes(w http.ResponseWriter, r *http.Request) {
	memes := service.NewMemeService(h.stores())
	var (
		out []model.Meme
		err error
	)
	if r.URL.Query().Get("public") == "true" {
		out, err = memes.GetPublic(r.Context())
	} else {
		out, err = memes.GetAll(r.Context())
	}
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, out)
}

func (h *MemeHandler) getMeme(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	meme, err := service.NewMemeService(h.stores()).GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, meme)
}

func (h *MemeHandler) createMeme(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req memeRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	meme := &model.Meme{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsPublic:    req.IsPublic,
	}
	if err := service.NewMemeService(h.stores()).Create(r.Context(), meme); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, meme)
}

func (h *MemeHandler) updateMeme(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req memeRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	memes := service.NewMemeService(h.stores())
	existing, err := h.ownedMeme(r, memes, id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	meme := &model.Meme{
		ID:          id,
		UserID:      existing.UserID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsPublic:    req.IsPublic,
	}
	if err := memes.Update(r.Context(), meme); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, meme)
}

// ownedMeme loads a meme the caller may modify.
func (h *MemeHandler) ownedMeme(r *http.Request, memes *service.MemeService, id int64) (*model.Meme, error) {
	meme, err := memes.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(r, meme.UserID); err != nil {
		return nil, err
	}
	return meme, nil
}

func (h *MemeHandler) deleteMeme(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	memes := service.NewMemeService(h.stores())
	if _, err := h.ownedMeme(r, memes, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := memes.Delete(r.Context(), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *MemeHandler) setVisibility(w http.ResponseWriter, r *http.Request) {
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
	memes := service.NewMemeService(h.stores())
	if _, err := h.ownedMeme(r, memes, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	meme, err := memes.SetVisibility(r.Context(), id, req.IsPublic)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, meme)
}

func (h *MemeHandler) listTags(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	ids, err := service.NewMemeTagService(h.stores()).GetTagIDsForMeme(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, ids)
}

func (h *MemeHandler) addTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	tagID, err := idParam(r, "tagID")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	store := h.stores()
	if _, err := h.ownedMeme(r, service.NewMemeService(store), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	link, err := service.NewMemeTagService(store).AddTagToMeme(r.Context(), id, tagID)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, link)
}

func (h *MemeHandler) removeTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	tagID, err := idParam(r, "tagID")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	store := h.stores()
	if _, err := h.ownedMeme(r, service.NewMemeService(store), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewMemeTagService(store).RemoveTagFromMeme(r.Context(), id, tagID); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *MemeHandler) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	comments, err := service.NewCommentService(h.stores()).GetByMemeID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, comments)
}

func (h *MemeHandler) getThread(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	thread, err := service.NewCommentService(h.stores()).GetThread(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, thread)
}

func (h *MemeHandler) listReactions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	reactions, err := service.NewReactionService(h.stores()).GetByMemeID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, reactions)
}

func (h *MemeHandler) reactionCounts(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	counts, err := service.NewReactionService(h.stores()).GetReactionCounts(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, counts)
}

// updateReaction changes the caller's existing reaction on the meme.
func (h *MemeHandler) updateReaction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	userID, err := currentUser(r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req reactionTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	reaction, err := service.NewReactionService(h.stores()).UpdateReaction(r.Context(), id, userID, req.ReactionType)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, reaction)
}

func (h *MemeHandler) removeReaction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	userID, err := currentUser(r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewReactionService(h.stores()).RemoveReaction(r.Context(), id, userID); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *MemeHandler) getMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	md, err := service.NewMemeMetadatumService(h.stores()).GetByMemeID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, md)
}

func (h *MemeHandler) metadataFromRequest(r *http.Request) (*model.MemeMetadatum, error) {
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	var req metadataRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return &model.MemeMetadatum{
		MemeID:   id,
		FileSize: req.FileSize,
		Width:    req.Width,
		Height:   req.Height,
		Format:   req.Format,
		MimeType: req.MimeType,
	}, nil
}

func (h *MemeHandler) createMetadata(w http.ResponseWriter, r *http.Request) {
	md, err := h.metadataFromRequest(r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	store := h.stores()
	if _, err := h.ownedMeme(r, service.NewMemeService(store), md.MemeID); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewMemeMetadatumService(store).Create(r.Context(), md); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, md)
}

func (h *MemeHandler) updateMetadata(w http.ResponseWriter, r *http.Request) {
	md, err := h.metadataFromRequest(r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	store := h.stores()
	if _, err := h.ownedMeme(r, service.NewMemeService(store), md.MemeID); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewMemeMetadatumService(store).Update(r.Context(), md); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, md)
}

func (h *MemeHandler) deleteMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	store := h.stores()
	if _, err := h.ownedMeme(r, service.NewMemeService(store), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := service.NewMemeMetadatumService(store).Delete(r.Context(), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *MemeHandler) getStats(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	st, err := service.NewUploadStatService(h.stores()).GetByMemeID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, st)
}

func (h *MemeHandler) createStats(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	store := h.stores()
	if _, err := h.ownedMeme(r, service.NewMemeService(store), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	st := &model.UploadStat{MemeID: id}
	if err := service.NewUploadStatService(store).Create(r.Context(), st); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, st)
}

// incrementStat bumps one counter, or queues the bump when a publisher is set.
// A meme without stats is a 404 either way.
func (h *MemeHandler) incrementStat(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	kind := model.StatKind(chi.URLParam(r, "kind"))

	stats := service.NewUploadStatService(h.stores())

	if h.statEvents != nil {
		ev := service.StatEvent{MemeID: id, Kind: kind}
		if err := ev.Validate(); err != nil {
			common.RespondWithErr(w, err)
			return
		}
		if _, err := stats.GetByMemeID(r.Context(), id); err != nil {
			common.RespondWithErr(w, err)
			return
		}
		if err := h.statEvents.Publish(r.Context(), ev); err != nil {
			common.RespondWithErr(w, err)
			return
		}
		common.RespondWithJSON(w, http.StatusAccepted, ev)
		return
	}

	st, err := stats.Increment(r.Context(), id, kind)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, st)
}
