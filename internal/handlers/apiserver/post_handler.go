package apiserver

import (
	"fmt"
	"net/http"

	"testgram/internal/config"
	"testgram/internal/models"
	"testgram/internal/services"
)

const (
	postPreviewLimit = 128
	postPreviewKeep  = 125
)

// PostHandler serves /posts.
type PostHandler struct {
	postService services.PostService
	pagination  config.PaginationConfig
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService services.PostService, pagination config.PaginationConfig) *PostHandler {
	return &PostHandler{postService: postService, pagination: pagination}
}

// PostRequest is the body of create, PUT and PATCH. PATCH may omit fields.
type PostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// PostResponse is a post in lists and after writes.
type PostResponse struct {
	ID        uint      `json:"id"`
	Author    UserBrief `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"created_at"`
}

// PostDetailResponse adds the caller's reaction, "" when there is none.
type PostDetailResponse struct {
	PostResponse
	MyReaction string `json:"my_reaction"`
}

func toPostResponse(p *models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Author:    userBrief(p.Author),
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

// previewBody shortens long bodies for list views.
func previewBody(body string) string {
	runes := []rune(body)
	if len(runes) <= postPreviewLimit {
		return body
	}
	return string(runes[:postPreviewKeep]) + "..."
}

// ListPosts 返回分页的帖子列表，正文被截断。
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	page, err := parsePage(r, h.pagination)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	posts, total, err := h.postService.ListPosts(r.Context(), page.window())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	results := make([]PostResponse, 0, len(posts))
	for i := range posts {
		resp := toPostResponse(&posts[i])
		resp.Body = previewBody(resp.Body)
		results = append(results, resp)
	}
	writeJSONResponse(w, http.StatusOK, page.wrap(total, results))
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req PostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.Title == nil || req.Body == nil {
		writeServiceError(w, r, fmt.Errorf("%w: title and body are required", services.ErrValidation))
		return
	}

	post, err := h.postService.CreatePost(r.Context(), userID, *req.Title, *req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, toPostResponse(post))
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.postService.GetPost(r.Context(), userID, postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp := PostDetailResponse{PostResponse: toPostResponse(&detail.Post)}
	if detail.MyReaction != nil {
		resp.MyReaction = string(*detail.MyReaction)
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

// UpdatePost serves PUT (every field required) and PATCH (partial).
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req PostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if r.Method == http.MethodPut && (req.Title == nil || req.Body == nil) {
		writeServiceError(w, r, fmt.Errorf("%w: title and body are required", services.ErrValidation))
		return
	}

	post, err := h.postService.UpdatePost(r.Context(), userID, postID, services.PostUpdate{Title: req.Title, Body: req.Body})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, toPostResponse(post))
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.postService.DeletePost(r.Context(), userID, postID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
