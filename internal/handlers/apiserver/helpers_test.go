package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"testgram/internal/auth"
	"testgram/internal/config"
	"testgram/internal/models"
	appRedis "testgram/internal/redis"
	"testgram/internal/services"
	"testgram/internal/storage"
	"testgram/internal/storage/storagetest"
)

var (
	testAuthConfig = config.AuthConfig{JWTSecretKey: "handler-test-secret", JWTIssuer: "testgram-auth"}
	testPagination = config.PaginationConfig{DefaultPageSize: 10, MaxPageSize: 20}
)

type apiEnv struct {
	t      *testing.T
	db     *gorm.DB
	router http.Handler
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	db := storagetest.NewDB(t)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	blacklist := appRedis.NewRedisTokenBlacklist(client)

	users := storage.NewGormUserRepository(db)
	friendships := storage.NewGormFriendshipRepository(db)
	posts := storage.NewGormPostRepository(db)
	comments := storage.NewGormCommentRepository(db)
	reactions := storage.NewGormReactionRepository(db)
	chats := storage.NewGormChatRepository(db)
	messages := storage.NewGormMessageRepository(db)

	svc := Services{
		Auth:       services.NewAuthService(users, blacklist),
		User:       services.NewUserService(users, friendships, posts),
		Friendship: services.NewFriendshipService(users, friendships),
		Post:       services.NewPostService(posts, reactions),
		Comment:    services.NewCommentService(comments, posts),
		Reaction:   services.NewReactionService(reactions, posts),
		Chat:       services.NewChatService(chats, messages, users, nil, "you"),
		Message:    services.NewMessageService(chats, messages, nil, "you"),
	}
	router := NewRouter(svc, RouterOptions{
		Auth:       testAuthConfig,
		Pagination: testPagination,
		Blacklist:  blacklist,
	})
	return &apiEnv{t: t, db: db, router: router}
}

func (e *apiEnv) user(username, first, last string) (*models.User, string) {
	e.t.Helper()
	u := storagetest.CreateUser(e.t, e.db, username, first, last)
	token, err := auth.GenerateToken(u.ID, u.Username, time.Hour, testAuthConfig)
	require.NoError(e.t, err)
	return u, token
}

func (e *apiEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// page decodes a paginated response with typed results.
type page[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}
