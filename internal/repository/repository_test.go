package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gopherblog/internal/model"
	"gopherblog/internal/platform/sqlite"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Tables()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo *UserRepository, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "A", Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	user := createUser(t, repo, "a@x.com")
	assert.NotZero(t, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Nil(t, byEmail.Token)
	assert.Nil(t, byEmail.TokenExpiresAt)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestUserRepository_MissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	byEmail, err := repo.GetByEmail(ctx, "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, byEmail)

	byID, err := repo.GetByID(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, byID)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	createUser(t, repo, "a@x.com")

	err := repo.Create(context.Background(), &model.User{Name: "B", Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestUserRepository_UpdateToken(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))
	user := createUser(t, repo, "a@x.com")

	expiresAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateToken(ctx, user.ID, "token-1", expiresAt))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Token)
	require.NotNil(t, stored.TokenExpiresAt)
	assert.Equal(t, "token-1", *stored.Token)
	assert.True(t, stored.TokenExpiresAt.Equal(expiresAt))

	require.NoError(t, repo.UpdateToken(ctx, user.ID, "token-2", expiresAt.Add(time.Hour)))
	stored, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-2", *stored.Token)
}

func TestPostRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)

	alice := createUser(t, users, "a@x.com")
	bob := createUser(t, users, "b@x.com")

	empty, err := posts.ListByAuthorID(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first := &model.Post{Title: "hi", Content: "body", AuthorID: alice.ID}
	second := &model.Post{Title: "again", Content: "more", AuthorID: alice.ID}
	other := &model.Post{Title: "bob", Content: "bob's", AuthorID: bob.ID}
	for _, p := range []*model.Post{first, second, other} {
		require.NoError(t, posts.Create(ctx, p))
		assert.NotZero(t, p.ID)
	}

	list, err := posts.ListByAuthorID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hi", list[0].Title)
	assert.Equal(t, "again", list[1].Title)
	for _, p := range list {
		assert.Equal(t, alice.ID, p.AuthorID)
	}
}

func TestAuthEventRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewAuthEventRepository(setupTestDB(t))

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &model.AuthEvent{UserID: 7, Kind: model.AuthEventSignup, OccurredAt: now}))
	require.NoError(t, repo.Create(ctx, &model.AuthEvent{UserID: 7, Kind: model.AuthEventTokenIssued, OccurredAt: now.Add(time.Second)}))
	require.NoError(t, repo.Create(ctx, &model.AuthEvent{UserID: 8, Kind: model.AuthEventSignup, OccurredAt: now}))

	events, err := repo.ListByUserID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.AuthEventSignup, events[0].Kind)
	assert.Equal(t, model.AuthEventTokenIssued, events[1].Kind)
}
