package apiserver

import (
	"fmt"
	"net/http"

	"testgram/internal/config"
	"testgram/internal/models"
	"testgram/internal/services"
	"testgram/internal/storage"
)

// CommentHandler serves /comments.
type CommentHandler struct {
	commentService services.CommentService
	pagination     config.PaginationConfig
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService services.CommentService, pagination config.PaginationConfig) *CommentHandler {
	return &CommentHandler{commentService: commentService, pagination: pagination}
}

// CommentRequest is the body of comment create and edit.
type CommentRequest struct {
	Post uint   `json:"post"`
	Body string `json:"body"`
}

// CommentResponse is a comment as returned by every endpoint.
type CommentResponse struct {
	ID        uint      `json:"id"`
	Author    UserBrief `json:"author"`
	Post      uint      `json:"post"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"created_at"`
	Updated   bool      `json:"updated"`
}

func toCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Author:    userBrief(c.Author),
		Post:      c.PostID,
		Body:      c.Body,
		CreatedAt: formatTime(c.CreatedAt),
		Updated:   c.Updated,
	}
}

// ListComments accepts ?post_id= (or ?post__id=) to narrow the list to one post.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	page, err := parsePage(r, h.pagination)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var postID *uint
	raw := r.URL.Query().Get("post_id")
	if raw == "" {
		raw = r.URL.Query().Get("post__id")
	}
	if raw != "" {
		id, err := storage.StrToUint(raw)
		if err != nil {
			writeServiceError(w, r, fmt.Errorf("%w: invalid post_id %q", services.ErrValidation, raw))
			return
		}
		postID = &id
	}

	comments, total, err := h.commentService.ListComments(r.Context(), postID, page.window())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	results := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		results = append(results, toCommentResponse(&comments[i]))
	}
	writeJSONResponse(w, http.StatusOK, page.wrap(total, results))
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	comment, err := h.commentService.CreateComment(r.Context(), userID, req.Post, req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, toCommentResponse(comment))
}

// UpdateComment edits the body of the caller's own comment.
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	comment, err := h.commentService.UpdateComment(r.Context(), userID, commentID, req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, toCommentResponse(comment))
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.commentService.DeleteComment(r.Context(), userID, commentID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
