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

type CommentHandler struct {
	stores repository.StoreFactory
}

func NewCommentHandler(stores repository.StoreFactory) *CommentHandler {
	return &CommentHandler{stores: stores}
}

type createCommentRequest struct {
	MemeID          int64  `json:"meme_id"`
	CommentText     string `json:"comment_text"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

type editCommentRequest struct {
	CommentText string `json:"comment_text"`
}

func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}", h.getComment)
	r.Get("/{id}/replies", h.listReplies)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Post("/", h.createComment)
		auth.Put("/{id}", h.editComment)
		auth.Delete("/{id}", h.deleteComment)
	})
}

func (h *CommentHandler) getComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	c, err := service.NewCommentService(h.stores()).GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, c)
}

func (h *CommentHandler) listReplies(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	replies, err := service.NewCommentService(h.stores()).GetReplies(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, replies)
}

func (h *CommentHandler) createComment(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	c := &model.Comment{
		MemeID:          req.MemeID,
		UserID:          userID,
		CommentText:     req.CommentText,
		ParentCommentID: req.ParentCommentID,
	}
	if err := service.NewCommentService(h.stores()).Create(r.Context(), c); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondCreated(w, c)
}

func (h *CommentHandler) editComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	var req editCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	comments := service.NewCommentService(h.stores())
	if err := h.checkOwner(r, comments, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	c, err := comments.EditText(r.Context(), id, req.CommentText)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondOK(w, c)
}

func (h *CommentHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	comments := service.NewCommentService(h.stores())
	if err := h.checkOwner(r, comments, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := comments.Delete(r.Context(), id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *CommentHandler) checkOwner(r *http.Request, comments *service.CommentService, id int64) error {
	c, err := comments.GetByID(r.Context(), id)
	if err != nil {
		return err
	}
	return requireOwner(r, c.UserID)
}
