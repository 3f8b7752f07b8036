package apiserver

import (
	"fmt"
	"net/http"

	"testgram/internal/models"
	"testgram/internal/services"
	"testgram/internal/storage"
)

// ReactionHandler serves /reactions.
type ReactionHandler struct {
	reactionService services.ReactionService
}

// NewReactionHandler creates a new ReactionHandler.
func NewReactionHandler(reactionService services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// ReactionRequest sets the caller's reaction on a post; a null value unsets it.
type ReactionRequest struct {
	Post  uint                  `json:"post"`
	Value *models.ReactionValue `json:"value"`
}

// ReactionResponse is the stored reaction.
type ReactionResponse struct {
	ID    uint                  `json:"id"`
	Post  uint                  `json:"post"`
	Value *models.ReactionValue `json:"value"`
}

func (h *ReactionHandler) SetReaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req ReactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	reaction, err := h.reactionService.SetReaction(r.Context(), userID, req.Post, req.Value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, ReactionResponse{ID: reaction.ID, Post: reaction.PostID, Value: reaction.Value})
}

// ClearReaction unsets the caller's reaction on ?post=.
func (h *ReactionHandler) ClearReaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	raw := r.URL.Query().Get("post")
	postID, err := storage.StrToUint(raw)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("%w: invalid post %q", services.ErrValidation, raw))
		return
	}
	if err := h.reactionService.ClearReaction(r.Context(), userID, postID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
