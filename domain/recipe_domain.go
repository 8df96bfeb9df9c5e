package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessGetRecipes    = "success get recipes"
	MessageSuccessGetRecipe     = "success get recipe detail"
	MessageSuccessCreateRecipe  = "recipe created successfully"
	MessageSuccessUpdateRecipe  = "recipe updated successfully"
	MessageSuccessDeleteRecipe  = "recipe deleted successfully"
	MessageSuccessUploadImage   = "recipe image uploaded successfully"
	MessageFailedGetRecipes     = "failed to get recipes"
	MessageFailedGetRecipe      = "failed to get recipe detail"
	MessageFailedCreateRecipe   = "failed to create recipe"
	MessageFailedUpdateRecipe   = "failed to update recipe"
	MessageFailedDeleteRecipe   = "failed to delete recipe"
	MessageFailedUploadImage    = "failed to upload recipe image"
	MessageRecipeNotAllowed     = "only the author, a moderator or an admin may change a recipe"
	MessageFailedInvalidFilters = "invalid filter parameters"

	ErrRecipeNotFound        = errors.New("recipe not found")
	ErrIngredientNotFound    = errors.New("ingredient not found")
	ErrTagNotFound           = errors.New("tag not found")
	ErrNoIngredients         = errors.New("recipe must contain at least one ingredient")
	ErrInvalidCookingTime    = errors.New("cooking time must be at least one minute")
	ErrInvalidAmount         = errors.New("ingredient amount must be at least one")
	ErrDuplicateIngredient   = errors.New("duplicate ingredient in recipe")
	ErrRecipeAccessForbidden = errors.New("not allowed to modify this recipe")
)

type (
	IngredientAmountRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		ImageURL    string                    `json:"image_url" validate:"omitempty,url"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
		Tags        []string                  `json:"tags" validate:"omitempty,dive,uuid"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	UpdateRecipeRequest struct {
		Name        string                    `json:"name" validate:"omitempty,max=200"`
		ImageURL    string                    `json:"image_url" validate:"omitempty,url"`
		Text        string                    `json:"text" validate:"omitempty"`
		CookingTime int                       `json:"cooking_time" validate:"omitempty,min=1"`
		Tags        []string                  `json:"tags" validate:"omitempty,dive,uuid"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"omitempty,min=1,dive"`
	}

	UploadRecipeImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	IngredientAmountResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	RecipeResponse struct {
		ID                string                     `json:"id"`
		Tags              []TagResponse              `json:"tags"`
		Author            UserResponse               `json:"author"`
		Ingredients       []IngredientAmountResponse `json:"ingredients"`
		IsFavorited       bool                       `json:"is_favorited"`
		IsInShoppingCart  bool                       `json:"is_in_shopping_cart"`
		Name              string                     `json:"name"`
		ImageURL          string                     `json:"image_url,omitempty"`
		Text              string                     `json:"text"`
		CookingTime       int                        `json:"cooking_time"`
		CreatedAt         time.Time                  `json:"created_at"`
	}

	// DemoRecipe is the abbreviated projection returned inside
	// favorite/cart/subscription responses.
	DemoRecipe struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image_url,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	// RecipeFilter carries the list filters together with the viewer;
	// an empty ViewerID means anonymous and disables the membership
	// filters.
	RecipeFilter struct {
		TagSlugs         []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
		ViewerID         string
	}
)
