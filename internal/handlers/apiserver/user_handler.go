package apiserver

import (
	"net/http"

	"testgram/internal/config"
	"testgram/internal/services"
)

// UserHandler 封装了用户相关的 HTTP 处理器方法。
type UserHandler struct {
	userService       services.UserService
	friendshipService services.FriendshipService
	pagination        config.PaginationConfig
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService services.UserService, friendshipService services.FriendshipService, pagination config.PaginationConfig) *UserHandler {
	return &UserHandler{userService: userService, friendshipService: friendshipService, pagination: pagination}
}

// UserListItem is one row of the user and friend lists.
type UserListItem struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsFriend  bool   `json:"is_friend"`
}

// ProfilePost is a post as embedded in a profile.
type ProfilePost struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// ProfileResponse is the detailed view of a user.
type ProfileResponse struct {
	ID          uint          `json:"id"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Email       string        `json:"email"`
	IsFriend    bool          `json:"is_friend"`
	FriendCount int64         `json:"friend_count"`
	Posts       []ProfilePost `json:"posts"`
}

func toUserListItems(items []services.UserListItem) []UserListItem {
	out := make([]UserListItem, 0, len(items))
	for _, it := range items {
		out = append(out, UserListItem{
			ID:        it.User.ID,
			FirstName: it.User.FirstName,
			LastName:  it.User.LastName,
			IsFriend:  it.IsFriend,
		})
	}
	return out
}

// ListUsers 返回分页的用户列表。
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	page, err := parsePage(r, h.pagination)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items, total, err := h.userService.ListUsers(r.Context(), userID, page.window())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, page.wrap(total, toUserListItems(items)))
}

// Me 处理获取当前登录用户信息的请求。
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, r, userID, userID)
}

// GetUser 处理获取指定用户信息的请求。
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, r, userID, targetID)
}

func (h *UserHandler) writeProfile(w http.ResponseWriter, r *http.Request, requesterID, userID uint) {
	profile, err := h.userService.GetProfile(r.Context(), requesterID, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	posts := make([]ProfilePost, 0, len(profile.Posts))
	for _, p := range profile.Posts {
		posts = append(posts, ProfilePost{ID: p.ID, Title: p.Title, Body: p.Body, CreatedAt: formatTime(p.CreatedAt)})
	}
	writeJSONResponse(w, http.StatusOK, ProfileResponse{
		ID:          profile.User.ID,
		FirstName:   profile.User.FirstName,
		LastName:    profile.User.LastName,
		Email:       profile.User.Email,
		IsFriend:    profile.IsFriend,
		FriendCount: profile.FriendCount,
		Posts:       posts,
	})
}

// ListFriends 返回指定用户的好友列表。
func (h *UserHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r)
	if !ok {
		return
	}
	page, err := parsePage(r, h.pagination)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items, total, err := h.userService.ListFriends(r.Context(), userID, targetID, page.window())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, page.wrap(total, toUserListItems(items)))
}

// AddFriend makes the caller and {id} friends. Repeating it is harmless.
func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.friendshipService.AddFriend(r.Context(), userID, targetID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]bool{"is_friend": true})
}

// RemoveFriend ends the friendship between the caller and {id}, if any.
func (h *UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.friendshipService.RemoveFriend(r.Context(), userID, targetID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]bool{"is_friend": false})
}
