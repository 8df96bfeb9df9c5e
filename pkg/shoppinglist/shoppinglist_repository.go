package shoppinglist

import (
	"context"

	"foodgram-backend/entities"

	"gorm.io/gorm"
)

type (
	ShoppingListRepository interface {
		GetCartIngredientRows(ctx context.Context, userID string) ([]*entities.IngredientRecipe, error)
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

// GetCartIngredientRows returns every ingredient row of every recipe in
// the user's cart, ordered by when the recipe entered the cart and then
// by its position inside the recipe. That order defines "first seen"
// for the aggregation.
func (r *shoppingListRepository) GetCartIngredientRows(ctx context.Context, userID string) ([]*entities.IngredientRecipe, error) {
	var rows []*entities.IngredientRecipe

	if err := r.db.WithContext(ctx).
		Model(&entities.IngredientRecipe{}).
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = ingredient_recipes.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Order("shopping_carts.created_at asc, ingredient_recipes.position asc").
		Preload("Ingredient").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
