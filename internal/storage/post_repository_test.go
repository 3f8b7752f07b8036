package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testgram/internal/models"
	"testgram/internal/storage"
	"testgram/internal/storage/storagetest"
)

func TestPostDeleteCascades(t *testing.T) {
	db := storagetest.NewDB(t)
	a := storagetest.CreateUser(t, db, "a", "A", "")
	b := storagetest.CreateUser(t, db, "b", "B", "")
	post := storagetest.CreatePost(t, db, a.ID, "title", "body")
	kept := storagetest.CreatePost(t, db, b.ID, "other", "body")
	ctx := context.Background()

	comments := storage.NewGormCommentRepository(db)
	require.NoError(t, comments.Create(ctx, &models.Comment{AuthorID: b.ID, PostID: post.ID, Body: "nice"}))
	require.NoError(t, comments.Create(ctx, &models.Comment{AuthorID: a.ID, PostID: kept.ID, Body: "too"}))
	_, err := storage.NewGormReactionRepository(db).Upsert(ctx, b.ID, post.ID, reactionPtr(models.ReactionLaugh))
	require.NoError(t, err)

	repo := storage.NewGormPostRepository(db)
	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err = repo.GetByID(ctx, post.ID)
	assert.True(t, storage.IsNotFound(err))

	postID := post.ID
	left, total, err := comments.List(ctx, &postID, storage.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, left)

	all, total, err := comments.List(ctx, nil, storage.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].PostID)

	var reactions int64
	require.NoError(t, db.Model(&models.Reaction{}).Count(&reactions).Error)
	assert.Zero(t, reactions)

	assert.True(t, storage.IsNotFound(repo.Delete(ctx, post.ID)))
}

func TestPostListNewestFirst(t *testing.T) {
	db := storagetest.NewDB(t)
	a := storagetest.CreateUser(t, db, "a", "Ann", "Lee")
	storagetest.CreatePost(t, db, a.ID, "one", "body")
	p2 := storagetest.CreatePost(t, db, a.ID, "two", "body")
	p3 := storagetest.CreatePost(t, db, a.ID, "three", "body")

	posts, total, err := storage.NewGormPostRepository(db).List(context.Background(), storage.Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 2)
	assert.Equal(t, p3.ID, posts[0].ID)
	assert.Equal(t, p2.ID, posts[1].ID)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "Ann", posts[0].Author.FirstName)
}

func TestUserListByIDs(t *testing.T) {
	db := storagetest.NewDB(t)
	a := storagetest.CreateUser(t, db, "a", "A", "")
	storagetest.CreateUser(t, db, "b", "B", "")
	c := storagetest.CreateUser(t, db, "c", "C", "")
	repo := storage.NewGormUserRepository(db)
	ctx := context.Background()

	users, total, err := repo.ListByIDs(ctx, []uint{a.ID, c.ID}, storage.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	assert.Equal(t, c.ID, users[0].ID)

	none, total, err := repo.ListByIDs(ctx, nil, storage.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)

	err = repo.Create(ctx, &models.User{Username: "a", PasswordHash: "x"})
	assert.True(t, storage.IsUniqueViolation(err), "got %v", err)
}
