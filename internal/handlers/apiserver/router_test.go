package apiserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthIsPublic(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/posts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Error)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	env := newAPIEnv(t)
	_, token := env.user("alice", "Alice", "A")

	rec := env.do(http.MethodGet, "/api/v1/nowhere", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/posts/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegister(t *testing.T) {
	env := newAPIEnv(t)
	body := map[string]string{
		"username":   "newbie",
		"password":   "long-enough-password",
		"email":      "newbie@example.com",
		"first_name": "New",
		"last_name":  "Bie",
	}

	rec := env.do(http.MethodPost, "/api/v1/users", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[RegisterResponse](t, rec)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "newbie", resp.Username)
	assert.Equal(t, "New", resp.FirstName)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(http.MethodPost, "/api/v1/users", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	body["username"] = "other"
	body["password"] = "short"
	rec = env.do(http.MethodPost, "/api/v1/users", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newAPIEnv(t)
	_, token := env.user("alice", "Alice", "A")

	rec := env.do(http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsersAndFriends(t *testing.T) {
	env := newAPIEnv(t)
	alice, aliceToken := env.user("alice", "Alice", "A")
	bob, _ := env.user("bob", "Bob", "B")
	env.user("carol", "Carol", "C")

	rec := env.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/add_friend", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	// Adding twice is harmless.
	rec = env.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/add_friend", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/users", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeBody[page[UserListItem]](t, rec)
	assert.EqualValues(t, 3, users.Count)
	require.Len(t, users.Results, 3)
	assert.Equal(t, "Carol", users.Results[0].FirstName)
	for _, u := range users.Results {
		assert.Equal(t, u.ID == bob.ID, u.IsFriend, "user %d", u.ID)
	}

	rec = env.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody[ProfileResponse](t, rec)
	assert.True(t, profile.IsFriend)
	assert.EqualValues(t, 1, profile.FriendCount)
	assert.NotNil(t, profile.Posts)

	rec = env.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/friends", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	friends := decodeBody[page[UserListItem]](t, rec)
	require.Len(t, friends.Results, 1)
	assert.Equal(t, alice.ID, friends.Results[0].ID)

	rec = env.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/remove_friend", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(http.MethodGet, "/api/v1/users/me", aliceToken, nil)
	assert.EqualValues(t, 0, decodeBody[ProfileResponse](t, rec).FriendCount)

	rec = env.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/add_friend", alice.ID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(http.MethodGet, "/api/v1/users/9999", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaginationParameters(t *testing.T) {
	env := newAPIEnv(t)
	_, token := env.user("alice", "Alice", "A")
	for i := 0; i < 3; i++ {
		env.user(fmt.Sprintf("user%d", i), "U", fmt.Sprint(i))
	}

	rec := env.do(http.MethodGet, "/api/v1/users?page=2&page_size=3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[page[UserListItem]](t, rec)
	assert.EqualValues(t, 4, got.Count)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 3, got.PageSize)
	assert.Len(t, got.Results, 1)

	rec = env.do(http.MethodGet, "/api/v1/users?page_size=500", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testPagination.MaxPageSize, decodeBody[page[UserListItem]](t, rec).PageSize)

	rec = env.do(http.MethodGet, "/api/v1/users?page=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(http.MethodGet, "/api/v1/users?page_size=x", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(http.MethodGet, "/api/v1/users?page=922337203685477581&page_size=20", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
