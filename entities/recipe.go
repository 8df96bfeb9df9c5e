// File: entities/recipe.go
package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Name        string    `gorm:"size:200" json:"name"`
	ImageURL    string    `json:"image_url,omitempty"`
	Text        string    `gorm:"type:text" json:"text"`
	CookingTime int       `json:"cooking_time"`
	CreatedAt   time.Time `gorm:"type:timestamp;index" json:"created_at"`

	Author            *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags              []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	IngredientAmounts []IngredientRecipe `gorm:"foreignKey:RecipeID"`
}

// IngredientRecipe rows die with their recipe; an ingredient referenced
// by any row cannot be deleted.
type IngredientRecipe struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `json:"amount"`
	Position     int       `json:"-"` // order within the recipe's ingredient list

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT"`
}
