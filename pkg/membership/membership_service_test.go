package membership

import (
	"context"
	"fmt"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

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

func seedUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()

	user := entities.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string) *entities.Recipe {
	t.Helper()

	recipe := entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        "some steps",
		CookingTime: 10,
	}
	require.NoError(t, db.Create(&recipe).Error)
	return &recipe
}

func TestAddReturnsDemoProjection(t *testing.T) {
	db := setupTestDB(t)
	service := NewMembershipService(NewMembershipRepository(db))

	user := seedUser(t, db, "alice")
	recipe := seedRecipe(t, db, user, "pancakes")

	demo, err := service.Add(context.Background(), KindFavorite, user.ID.String(), recipe.ID.String())
	require.NoError(t, err)

	assert.Equal(t, recipe.ID.String(), demo.ID)
	assert.Equal(t, "pancakes", demo.Name)
	assert.Equal(t, 10, demo.CookingTime)
}

func TestAddDuplicateConflicts(t *testing.T) {
	db := setupTestDB(t)
	service := NewMembershipService(NewMembershipRepository(db))

	user := seedUser(t, db, "alice")
	recipe := seedRecipe(t, db, user, "pancakes")

	_, err := service.Add(context.Background(), KindCart, user.ID.String(), recipe.ID.String())
	require.NoError(t, err)

	_, err = service.Add(context.Background(), KindCart, user.ID.String(), recipe.ID.String())
	assert.ErrorIs(t, err, domain.ErrMembershipExists)
}

func TestAddUnknownRecipe(t *testing.T) {
	db := setupTestDB(t)
	service := NewMembershipService(NewMembershipRepository(db))

	user := seedUser(t, db, "alice")

	_, err := service.Add(context.Background(), KindFavorite, user.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestRemoveAbsentEntryIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewMembershipService(NewMembershipRepository(db))

	user := seedUser(t, db, "alice")
	recipe := seedRecipe(t, db, user, "pancakes")

	err := service.Remove(context.Background(), KindFavorite, user.ID.String(), recipe.ID.String())
	assert.ErrorIs(t, err, domain.ErrMembershipNotFound)
}

func TestRemoveThenAddAgain(t *testing.T) {
	db := setupTestDB(t)
	service := NewMembershipService(NewMembershipRepository(db))

	user := seedUser(t, db, "alice")
	recipe := seedRecipe(t, db, user, "pancakes")

	_, err := service.Add(context.Background(), KindFavorite, user.ID.String(), recipe.ID.String())
	require.NoError(t, err)

	require.NoError(t, service.Remove(context.Background(), KindFavorite, user.ID.String(), recipe.ID.String()))

	_, err = service.Add(context.Background(), KindFavorite, user.ID.String(), recipe.ID.String())
	assert.NoError(t, err)
}

func TestKindsAreIndependentSets(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)
	service := NewMembershipService(repo)

	user := seedUser(t, db, "alice")
	recipe := seedRecipe(t, db, user, "pancakes")

	_, err := service.Add(context.Background(), KindFavorite, user.ID.String(), recipe.ID.String())
	require.NoError(t, err)

	inCart, err := repo.Exists(context.Background(), KindCart, user.ID.String(), recipe.ID.String())
	require.NoError(t, err)
	assert.False(t, inCart)

	_, err = service.Add(context.Background(), KindCart, user.ID.String(), recipe.ID.String())
	assert.NoError(t, err)
}

func TestGetMembershipSetBatches(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)
	service := NewMembershipService(repo)

	user := seedUser(t, db, "alice")
	first := seedRecipe(t, db, user, "pancakes")
	second := seedRecipe(t, db, user, "omelette")

	_, err := service.Add(context.Background(), KindFavorite, user.ID.String(), first.ID.String())
	require.NoError(t, err)

	set, err := repo.GetMembershipSet(
		context.Background(),
		KindFavorite,
		user.ID.String(),
		[]string{first.ID.String(), second.ID.String()},
	)
	require.NoError(t, err)

	assert.True(t, set[first.ID.String()])
	assert.False(t, set[second.ID.String()])

	// anonymous viewers get an empty set
	set, err = repo.GetMembershipSet(context.Background(), KindFavorite, "", []string{first.ID.String()})
	require.NoError(t, err)
	assert.Empty(t, set)
}
