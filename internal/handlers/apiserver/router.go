package apiserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"testgram/internal/auth"
	"testgram/internal/config"
	"testgram/internal/middleware"
	"testgram/internal/services"
)

// Services groups the application services behind the HTTP API.
type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Friendship services.FriendshipService
	Post       services.PostService
	Comment    services.CommentService
	Reaction   services.ReactionService
	Chat       services.ChatService
	Message    services.MessageService
}

// RouterOptions carries the cross-cutting pieces of the router.
// Limiter and Health may be nil.
type RouterOptions struct {
	Auth       config.AuthConfig
	Pagination config.PaginationConfig
	Blacklist  auth.TokenBlacklist
	Limiter    *middleware.RateLimiter
	Health     Pinger
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness, and database reachability when a Pinger is set.
func HealthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.PingContext(ctx); err != nil {
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NewRouter 设置全部 HTTP 路由。除注册和 /health 外，所有 /api/v1 路由都需要认证。
func NewRouter(svc Services, opts RouterOptions) *mux.Router {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.User, svc.Friendship, opts.Pagination)
	postHandler := NewPostHandler(svc.Post, opts.Pagination)
	commentHandler := NewCommentHandler(svc.Comment, opts.Pagination)
	reactionHandler := NewReactionHandler(svc.Reaction)
	chatHandler := NewChatHandler(svc.Chat, svc.Message, opts.Pagination)
	messageHandler := NewMessageHandler(svc.Message)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	r.Use(middleware.RequestID, middleware.AccessLog)
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}

	r.HandleFunc("/health", HealthHandler(opts.Health)).Methods(http.MethodGet)

	// 公开路由
	r.HandleFunc("/api/v1/users", authHandler.Register).Methods(http.MethodPost)

	// API 子路由 (需要认证)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.AuthMiddleware(opts.Auth, opts.Blacklist))

	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// 用户与好友
	api.HandleFunc("/users", userHandler.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/me", userHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", userHandler.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/friends", userHandler.ListFriends).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/add_friend", userHandler.AddFriend).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}/remove_friend", userHandler.RemoveFriend).Methods(http.MethodPost)

	// 帖子、评论与表情
	api.HandleFunc("/posts", postHandler.ListPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts", postHandler.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id:[0-9]+}", postHandler.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id:[0-9]+}", postHandler.UpdatePost).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/posts/{id:[0-9]+}", postHandler.DeletePost).Methods(http.MethodDelete)
	api.HandleFunc("/comments", commentHandler.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/comments", commentHandler.CreateComment).Methods(http.MethodPost)
	api.HandleFunc("/comments/{id:[0-9]+}", commentHandler.UpdateComment).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/comments/{id:[0-9]+}", commentHandler.DeleteComment).Methods(http.MethodDelete)
	api.HandleFunc("/reactions", reactionHandler.SetReaction).Methods(http.MethodPost)
	api.HandleFunc("/reactions", reactionHandler.ClearReaction).Methods(http.MethodDelete)

	// 私聊
	api.HandleFunc("/chats", chatHandler.ListChats).Methods(http.MethodGet)
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.DeleteChat).Methods(http.MethodDelete)
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.ListMessages).Methods(http.MethodGet)
	api.HandleFunc("/messages", messageHandler.SendMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages/{id:[0-9]+}", messageHandler.DeleteMessage).Methods(http.MethodDelete)

	return r
}
