package membership

import (
	"context"
	"strings"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind selects which per-user recipe set a call operates on. Favorites
// and the shopping cart share one implementation parameterized by this
// tag.
type Kind string

const (
	KindFavorite Kind = "favorite"
	KindCart     Kind = "shopping_cart"
)

func (k Kind) model() any {
	if k == KindCart {
		return &entities.ShoppingCart{}
	}
	return &entities.Favorite{}
}

type (
	MembershipRepository interface {
		Add(ctx context.Context, kind Kind, userID, recipeID string) error
		Remove(ctx context.Context, kind Kind, userID, recipeID string) error
		Exists(ctx context.Context, kind Kind, userID, recipeID string) (bool, error)
		GetMembershipSet(ctx context.Context, kind Kind, userID string, recipeIDs []string) (map[string]bool, error)
		GetRecipeByID(ctx context.Context, recipeID string) (*entities.Recipe, error)
	}

	membershipRepository struct {
		db *gorm.DB
	}
)

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Add(ctx context.Context, kind Kind, userID, recipeID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ErrParseUUID
	}

	var entry any
	if kind == KindCart {
		entry = &entities.ShoppingCart{
			ID:        uuid.New(),
			UserID:    userUUID,
			RecipeID:  recipeUUID,
			CreatedAt: time.Now(),
		}
	} else {
		entry = &entities.Favorite{
			ID:        uuid.New(),
			UserID:    userUUID,
			RecipeID:  recipeUUID,
			CreatedAt: time.Now(),
		}
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		// The unique (user, recipe) index is the arbiter under
		// concurrent adds.
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return domain.ErrMembershipExists
		}
		return err
	}
	return nil
}

func (r *membershipRepository) Remove(ctx context.Context, kind Kind, userID, recipeID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(kind.model())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

func (r *membershipRepository) Exists(ctx context.Context, kind Kind, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(kind.model()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMembershipSet reports which of recipeIDs are in the viewer's set,
// in one query for the whole page. Empty userID means anonymous: the
// set is empty without touching the database.
func (r *membershipRepository) GetMembershipSet(ctx context.Context, kind Kind, userID string, recipeIDs []string) (map[string]bool, error) {
	member := make(map[string]bool, len(recipeIDs))
	if userID == "" || len(recipeIDs) == 0 {
		return member, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(kind.model()).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}

	for _, id := range ids {
		member[id.String()] = true
	}
	return member, nil
}

func (r *membershipRepository) GetRecipeByID(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", recipeID).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}
