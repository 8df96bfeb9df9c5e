package shoppinglist

import (
	"context"
	"fmt"
	"testing"
	"time"

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
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.IngredientRecipe{},
		&entities.ShoppingCart{},
	))
	return db
}

type amount struct {
	ingredient *entities.Ingredient
	amount     int
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()

	ing := entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ing).Error)
	return &ing
}

func seedRecipeWithAmounts(t *testing.T, db *gorm.DB, author *entities.User, name string, amounts []amount) *entities.Recipe {
	t.Helper()

	recipe := entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        "steps",
		CookingTime: 5,
	}
	require.NoError(t, db.Create(&recipe).Error)

	for i, a := range amounts {
		row := entities.IngredientRecipe{
			ID:           uuid.New(),
			RecipeID:     recipe.ID,
			IngredientID: a.ingredient.ID,
			Amount:       a.amount,
			Position:     i,
		}
		require.NoError(t, db.Create(&row).Error)
	}
	return &recipe
}

func addToCart(t *testing.T, db *gorm.DB, user *entities.User, recipe *entities.Recipe, at time.Time) {
	t.Helper()

	require.NoError(t, db.Create(&entities.ShoppingCart{
		ID:        uuid.New(),
		UserID:    user.ID,
		RecipeID:  recipe.ID,
		CreatedAt: at,
	}).Error)
}

func TestComputeShoppingListMergesByIngredient(t *testing.T) {
	db := setupTestDB(t)
	service := NewShoppingListService(NewShoppingListRepository(db))

	user := entities.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	require.NoError(t, db.Create(&user).Error)

	flour := seedIngredient(t, db, "flour", "g")
	sugar := seedIngredient(t, db, "sugar", "g")

	pancakes := seedRecipeWithAmounts(t, db, &user, "pancakes", []amount{{flour, 200}})
	cake := seedRecipeWithAmounts(t, db, &user, "cake", []amount{{flour, 50}, {sugar, 100}})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	addToCart(t, db, &user, pancakes, base)
	addToCart(t, db, &user, cake, base.Add(time.Minute))

	items, err := service.ComputeShoppingList(context.Background(), user.ID.String())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, domain.ShoppingListItem{Index: 1, Name: "flour", Amount: 250, MeasurementUnit: "g"}, items[0])
	assert.Equal(t, domain.ShoppingListItem{Index: 2, Name: "sugar", Amount: 100, MeasurementUnit: "g"}, items[1])
}

func TestComputeShoppingListEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	service := NewShoppingListService(NewShoppingListRepository(db))

	user := entities.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	require.NoError(t, db.Create(&user).Error)

	items, err := service.ComputeShoppingList(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestComputeShoppingListSameNameDistinctIngredients(t *testing.T) {
	db := setupTestDB(t)
	service := NewShoppingListService(NewShoppingListRepository(db))

	user := entities.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	require.NoError(t, db.Create(&user).Error)

	sugarGrams := seedIngredient(t, db, "sugar", "g")
	sugarSpoons := seedIngredient(t, db, "sugar", "tbsp")

	recipe := seedRecipeWithAmounts(t, db, &user, "tea", []amount{{sugarGrams, 20}, {sugarSpoons, 2}})
	addToCart(t, db, &user, recipe, time.Now())

	items, err := service.ComputeShoppingList(context.Background(), user.ID.String())
	require.NoError(t, err)

	// same name, different catalog entries: they stay separate lines
	require.Len(t, items, 2)
	assert.Equal(t, 20, items[0].Amount)
	assert.Equal(t, "g", items[0].MeasurementUnit)
	assert.Equal(t, 2, items[1].Amount)
	assert.Equal(t, "tbsp", items[1].MeasurementUnit)
}

func TestComputeShoppingListOnlyViewerCart(t *testing.T) {
	db := setupTestDB(t)
	service := NewShoppingListService(NewShoppingListRepository(db))

	alice := entities.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	bob := entities.User{ID: uuid.New(), Email: "bob@example.com", Username: "bob"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	flour := seedIngredient(t, db, "flour", "g")
	recipe := seedRecipeWithAmounts(t, db, &alice, "pancakes", []amount{{flour, 200}})
	addToCart(t, db, &bob, recipe, time.Now())

	items, err := service.ComputeShoppingList(context.Background(), alice.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDownloadShoppingListProducesPDF(t *testing.T) {
	db := setupTestDB(t)
	service := NewShoppingListService(NewShoppingListRepository(db))

	user := entities.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	require.NoError(t, db.Create(&user).Error)

	flour := seedIngredient(t, db, "flour", "g")
	recipe := seedRecipeWithAmounts(t, db, &user, "pancakes", []amount{{flour, 200}})
	addToCart(t, db, &user, recipe, time.Now())

	data, err := service.DownloadShoppingList(context.Background(), user.ID.String())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
