package membership

import (
	"context"
	"errors"

	"foodgram-backend/domain"

	"gorm.io/gorm"
)

type (
	MembershipService interface {
		Add(ctx context.Context, kind Kind, userID, recipeID string) (domain.DemoRecipe, error)
		Remove(ctx context.Context, kind Kind, userID, recipeID string) error
	}

	membershipService struct {
		membershipRepository MembershipRepository
	}
)

func NewMembershipService(membershipRepository MembershipRepository) MembershipService {
	return &membershipService{membershipRepository: membershipRepository}
}

func (s *membershipService) Add(ctx context.Context, kind Kind, userID, recipeID string) (domain.DemoRecipe, error) {
	recipe, err := s.membershipRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DemoRecipe{}, domain.ErrRecipeNotFound
		}
		return domain.DemoRecipe{}, err
	}

	exists, err := s.membershipRepository.Exists(ctx, kind, userID, recipeID)
	if err != nil {
		return domain.DemoRecipe{}, err
	}
	if exists {
		return domain.DemoRecipe{}, domain.ErrMembershipExists
	}

	if err := s.membershipRepository.Add(ctx, kind, userID, recipeID); err != nil {
		return domain.DemoRecipe{}, err
	}

	return domain.DemoRecipe{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *membershipService) Remove(ctx context.Context, kind Kind, userID, recipeID string) error {
	return s.membershipRepository.Remove(ctx, kind, userID, recipeID)
}
