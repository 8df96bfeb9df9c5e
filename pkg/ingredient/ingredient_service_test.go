package ingredient

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

	require.NoError(t, db.AutoMigrate(&entities.Ingredient{}))
	return db
}

func seed(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()

	for _, name := range names {
		ing := entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: "g"}
		require.NoError(t, db.Create(&ing).Error)
	}
}

func TestGetIngredientsPrefixSearch(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(NewIngredientRepository(db))

	seed(t, db, "sugar", "sunflower oil", "salt", "brown sugar")

	ctx := context.Background()
	got, err := service.GetIngredients(ctx, "su")
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, ing := range got {
		names = append(names, ing.Name)
	}
	assert.ElementsMatch(t, []string{"sugar", "sunflower oil"}, names)

	// prefix match only, not substring
	got, err = service.GetIngredients(ctx, "ugar")
	require.NoError(t, err)
	assert.Empty(t, got)

	// no prefix returns the whole catalog
	got, err = service.GetIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestGetIngredientDetail(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(NewIngredientRepository(db))

	ing := entities.Ingredient{ID: uuid.New(), Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&ing).Error)

	ctx := context.Background()
	got, err := service.GetIngredientDetail(ctx, ing.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "flour", got.Name)
	assert.Equal(t, "g", got.MeasurementUnit)

	_, err = service.GetIngredientDetail(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}
