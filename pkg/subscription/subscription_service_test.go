package subscription

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/recipe"

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
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.IngredientRecipe{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
		&entities.Follow{},
	))
	return db
}

func newTestService(db *gorm.DB) SubscriptionService {
	return NewSubscriptionService(NewSubscriptionRepository(db), recipe.NewRecipeRepository(db))
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()

	u := entities.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string, at time.Time) *entities.Recipe {
	t.Helper()

	r := entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        "steps",
		CookingTime: 5,
		CreatedAt:   at,
	}
	require.NoError(t, db.Create(&r).Error)
	return &r
}

func TestSubscribe(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	follower := seedUser(t, db, "alice")
	author := seedUser(t, db, "bob")
	seedRecipe(t, db, author, "pancakes", time.Now())

	resp, err := service.Subscribe(context.Background(), follower.ID.String(), author.ID.String(), 3)
	require.NoError(t, err)

	assert.Equal(t, author.ID.String(), resp.ID)
	assert.Equal(t, "bob", resp.Username)
	assert.True(t, resp.IsSubscribed)
	assert.EqualValues(t, 1, resp.RecipesCount)
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "pancakes", resp.Recipes[0].Name)
}

func TestSubscribeToSelf(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	follower := seedUser(t, db, "alice")

	_, err := service.Subscribe(context.Background(), follower.ID.String(), follower.ID.String(), 3)
	assert.ErrorIs(t, err, domain.ErrSelfSubscribe)
}

func TestSubscribeTwice(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	follower := seedUser(t, db, "alice")
	author := seedUser(t, db, "bob")

	_, err := service.Subscribe(context.Background(), follower.ID.String(), author.ID.String(), 3)
	require.NoError(t, err)

	_, err = service.Subscribe(context.Background(), follower.ID.String(), author.ID.String(), 3)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	follower := seedUser(t, db, "alice")

	_, err := service.Subscribe(context.Background(), follower.ID.String(), uuid.NewString(), 3)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUnsubscribeAbsent(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	follower := seedUser(t, db, "alice")
	author := seedUser(t, db, "bob")

	err := service.Unsubscribe(context.Background(), follower.ID.String(), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestUnsubscribeThenResubscribe(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	follower := seedUser(t, db, "alice")
	author := seedUser(t, db, "bob")

	ctx := context.Background()
	_, err := service.Subscribe(ctx, follower.ID.String(), author.ID.String(), 3)
	require.NoError(t, err)

	require.NoError(t, service.Unsubscribe(ctx, follower.ID.String(), author.ID.String()))

	_, err = service.Subscribe(ctx, follower.ID.String(), author.ID.String(), 3)
	assert.NoError(t, err)
}

func TestGetSubscriptionsRecipesLimit(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	follower := seedUser(t, db, "alice")
	author := seedUser(t, db, "bob")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedRecipe(t, db, author, fmt.Sprintf("recipe-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	ctx := context.Background()
	_, err := service.Subscribe(ctx, follower.ID.String(), author.ID.String(), 2)
	require.NoError(t, err)

	subs, total, err := service.GetSubscriptions(ctx, follower.ID.String(), 1, 10, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, subs, 1)

	// previews are truncated, the count is not
	assert.Len(t, subs[0].Recipes, 2)
	assert.EqualValues(t, 5, subs[0].RecipesCount)
	assert.Equal(t, "recipe-4", subs[0].Recipes[0].Name) // newest first
}
