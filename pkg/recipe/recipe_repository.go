package recipe

import (
	"context"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, amounts []entities.IngredientRecipe, tags []entities.Tag) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, amounts []entities.IngredientRecipe, tags []entities.Tag, replaceAmounts, replaceTags bool) error
		DeleteRecipe(ctx context.Context, id string) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipe writes the recipe row, its ingredient rows and its tag
// links in one transaction. Any failure rolls back the whole set.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, amounts []entities.IngredientRecipe, tags []entities.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "IngredientAmounts", "Author").Create(recipe).Error; err != nil {
			return err
		}

		if len(tags) > 0 {
			if err := tx.Model(recipe).Omit("Tags.*").Association("Tags").Append(&tags); err != nil {
				return err
			}
		}

		for i := range amounts {
			amounts[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&amounts).Error; err != nil {
			return err
		}
		return nil
	})
}

// UpdateRecipe saves the scalar fields and, when asked, replaces the
// tag set and ingredient rows wholesale inside the same transaction.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, amounts []entities.IngredientRecipe, tags []entities.Tag, replaceAmounts, replaceTags bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "IngredientAmounts", "Author").Save(recipe).Error; err != nil {
			return err
		}

		if replaceTags {
			if err := tx.Model(recipe).Omit("Tags.*").Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}

		if replaceAmounts {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.IngredientRecipe{}).Error; err != nil {
				return err
			}
			for i := range amounts {
				amounts[i].RecipeID = recipe.ID
			}
			if err := tx.Create(&amounts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteRecipe removes the recipe together with everything hanging off
// it: ingredient rows, tag links, favorite and cart entries.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.IngredientRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("IngredientAmounts.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) applyFilters(ctx context.Context, filter domain.RecipeFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
	}

	if filter.AuthorID != "" {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}

	// Membership filters are no-ops for anonymous viewers.
	if filter.ViewerID != "" {
		if filter.IsFavorited {
			query = query.Joins(
				"JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?",
				filter.ViewerID,
			)
		}
		if filter.IsInShoppingCart {
			query = query.Joins(
				"JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id AND shopping_carts.user_id = ?",
				filter.ViewerID,
			)
		}
	}

	return query
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.applyFilters(ctx, filter).
		Distinct("recipes.id").
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.applyFilters(ctx, filter).
		Distinct("recipes.*").
		Preload("Author").
		Preload("Tags").
		Preload("IngredientAmounts.Ingredient").
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe

	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
