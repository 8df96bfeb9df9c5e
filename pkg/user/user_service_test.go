package user

import (
	"context"
	"fmt"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Follow{},
	))
	return db
}

func newTestService(db *gorm.DB) UserService {
	return NewUserService(NewUserRepository(db), jwt.NewJWTService())
}

func registerRequest(username string) domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "qwerty12345",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	ctx := context.Background()
	created, err := service.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.False(t, created.IsSubscribed)

	resp, err := service.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "qwerty12345",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, created.ID, resp.User.ID)

	// the password hash never leaves the repository layer
	var stored entities.User
	require.NoError(t, db.First(&stored, "username = ?", "alice").Error)
	assert.NotEqual(t, "qwerty12345", stored.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	ctx := context.Background()
	_, err := service.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	dup := registerRequest("somebody")
	dup.Email = "alice@example.com"
	_, err = service.Register(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	ctx := context.Background()
	_, err := service.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	dup := registerRequest("alice")
	dup.Email = "other@example.com"
	_, err = service.Register(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	ctx := context.Background()
	_, err := service.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsNotMatched)

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "qwerty12345",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsNotMatched)
}

func TestSetPassword(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	ctx := context.Background()
	created, err := service.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	err = service.SetPassword(ctx, domain.SetPasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-1",
	}, created.ID)
	assert.ErrorIs(t, err, domain.ErrPasswordNotMatch)

	require.NoError(t, service.SetPassword(ctx, domain.SetPasswordRequest{
		CurrentPassword: "qwerty12345",
		NewPassword:     "new-password-1",
	}, created.ID))

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "new-password-1",
	})
	assert.NoError(t, err)
}

func TestGetUserDetailSubscribedFlag(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	ctx := context.Background()
	viewer, err := service.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	author, err := service.Register(ctx, registerRequest("bob"))
	require.NoError(t, err)

	viewerID, err := uuid.Parse(viewer.ID)
	require.NoError(t, err)
	authorID, err := uuid.Parse(author.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.Follow{ID: uuid.New(), UserID: viewerID, AuthorID: authorID}).Error)

	got, err := service.GetUserDetail(ctx, author.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSubscribed)

	// anonymous viewer
	got, err = service.GetUserDetail(ctx, author.ID, "")
	require.NoError(t, err)
	assert.False(t, got.IsSubscribed)

	_, err = service.GetUserDetail(ctx, uuid.NewString(), "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetUsersBatchedFlags(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	ctx := context.Background()
	viewer, err := service.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	followed, err := service.Register(ctx, registerRequest("bob"))
	require.NoError(t, err)
	_, err = service.Register(ctx, registerRequest("carol"))
	require.NoError(t, err)

	viewerID, err := uuid.Parse(viewer.ID)
	require.NoError(t, err)
	followedID, err := uuid.Parse(followed.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.Follow{ID: uuid.New(), UserID: viewerID, AuthorID: followedID}).Error)

	list, err := service.GetUsers(ctx, 1, 10, viewer.ID)
	require.NoError(t, err)
	require.Len(t, list.Users, 3)

	flags := map[string]bool{}
	for _, u := range list.Users {
		flags[u.Username] = u.IsSubscribed
	}
	assert.True(t, flags["bob"])
	assert.False(t, flags["carol"])
	assert.False(t, flags["alice"])
}
