package recipe

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/membership"
	"foodgram-backend/pkg/tag"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, req domain.UpdateRecipeRequest, recipeID, requesterID, requesterRole string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID, requesterID, requesterRole string) error
		UploadRecipeImage(ctx context.Context, req domain.UploadRecipeImageRequest) (string, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		membershipRepository membership.MembershipRepository
		userRepository       user.UserRepository
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	membershipRepository membership.MembershipRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		membershipRepository: membershipRepository,
		userRepository:       userRepository,
		s3:                   s3,
	}
}

// resolveAmounts validates the requested ingredient list and turns it
// into through-rows. The recipe id is filled in by the repository.
func (s *recipeService) resolveAmounts(ctx context.Context, reqs []domain.IngredientAmountRequest) ([]entities.IngredientRecipe, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrNoIngredients
	}

	ids := make([]string, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		if req.Amount < 1 {
			return nil, domain.ErrInvalidAmount
		}
		if seen[req.ID] {
			return nil, domain.ErrDuplicateIngredient
		}
		seen[req.ID] = true
		ids = append(ids, req.ID)
	}

	found, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.ErrIngredientNotFound
	}

	amounts := make([]entities.IngredientRecipe, 0, len(reqs))
	for i, req := range reqs {
		ingredientID, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		amounts = append(amounts, entities.IngredientRecipe{
			ID:           uuid.New(),
			IngredientID: ingredientID,
			Amount:       req.Amount,
			Position:     i,
		})
	}
	return amounts, nil
}

func (s *recipeService) resolveTags(ctx context.Context, ids []string) ([]entities.Tag, error) {
	if len(ids) == 0 {
		return []entities.Tag{}, nil
	}

	found, err := s.tagRepository.GetTagsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.ErrTagNotFound
	}

	tags := make([]entities.Tag, 0, len(found))
	for _, t := range found {
		tags = append(tags, *t)
	}
	return tags, nil
}

func canModify(recipe *entities.Recipe, requesterID, requesterRole string) bool {
	return recipe.AuthorID.String() == requesterID ||
		requesterRole == domain.RoleModerator ||
		requesterRole == domain.RoleAdmin
}

// toRecipeResponses annotates a page of recipes with the viewer's
// favorite/cart/subscription flags using one set-membership query per
// concern, never one per row.
func (s *recipeService) toRecipeResponses(ctx context.Context, recipes []*entities.Recipe, viewerID string) ([]domain.RecipeResponse, error) {
	recipeIDs := make([]string, 0, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID.String())
		authorIDs = append(authorIDs, r.AuthorID.String())
	}

	favorited, err := s.membershipRepository.GetMembershipSet(ctx, membership.KindFavorite, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.membershipRepository.GetMembershipSet(ctx, membership.KindCart, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := s.userRepository.GetFollowedAuthorSet(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		tags := make([]domain.TagResponse, 0, len(r.Tags))
		for _, t := range r.Tags {
			tags = append(tags, domain.TagResponse{
				ID:    t.ID.String(),
				Name:  t.Name,
				Color: t.Color,
				Slug:  t.Slug,
			})
		}

		amounts := make([]domain.IngredientAmountResponse, 0, len(r.IngredientAmounts))
		for _, a := range r.IngredientAmounts {
			item := domain.IngredientAmountResponse{
				ID:     a.IngredientID.String(),
				Amount: a.Amount,
			}
			if a.Ingredient != nil {
				item.Name = a.Ingredient.Name
				item.MeasurementUnit = a.Ingredient.MeasurementUnit
			}
			amounts = append(amounts, item)
		}

		author := domain.UserResponse{ID: r.AuthorID.String()}
		if r.Author != nil {
			author = domain.UserResponse{
				ID:           r.Author.ID.String(),
				Email:        r.Author.Email,
				Username:     r.Author.Username,
				FirstName:    r.Author.FirstName,
				LastName:     r.Author.LastName,
				IsSubscribed: followed[r.AuthorID.String()],
			}
		}

		res = append(res, domain.RecipeResponse{
			ID:               r.ID.String(),
			Tags:             tags,
			Author:           author,
			Ingredients:      amounts,
			IsFavorited:      favorited[r.ID.String()],
			IsInShoppingCart: inCart[r.ID.String()],
			Name:             r.Name,
			ImageURL:         r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
		})
	}
	return res, nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.toRecipeResponses(ctx, recipes, filter.ViewerID)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	res, err := s.toRecipeResponses(ctx, []*entities.Recipe{recipe}, viewerID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return res[0], nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error) {
	if req.CookingTime < 1 {
		return domain.RecipeResponse{}, domain.ErrInvalidCookingTime
	}

	amounts, err := s.resolveAmounts(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	recipe := entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorUUID,
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, &recipe, amounts, tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, req domain.UpdateRecipeRequest, recipeID, requesterID, requesterRole string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if !canModify(recipe, requesterID, requesterRole) {
		return domain.RecipeResponse{}, domain.ErrRecipeAccessForbidden
	}

	var amounts []entities.IngredientRecipe
	replaceAmounts := req.Ingredients != nil
	if replaceAmounts {
		amounts, err = s.resolveAmounts(ctx, req.Ingredients)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	var tags []entities.Tag
	replaceTags := req.Tags != nil
	if replaceTags {
		tags, err = s.resolveTags(ctx, req.Tags)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.ImageURL != "" {
		recipe.ImageURL = req.ImageURL
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.CookingTime != 0 {
		if req.CookingTime < 1 {
			return domain.RecipeResponse{}, domain.ErrInvalidCookingTime
		}
		recipe.CookingTime = req.CookingTime
	}

	// Detach preloaded associations so Save only touches scalars; the
	// repository replaces the sets explicitly.
	recipe.Tags = nil
	recipe.IngredientAmounts = nil
	recipe.Author = nil

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, amounts, tags, replaceAmounts, replaceTags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipeID, requesterID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, requesterID, requesterRole string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if !canModify(recipe, requesterID, requesterRole) {
		return domain.ErrRecipeAccessForbidden
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, req domain.UploadRecipeImageRequest) (string, error) {
	return s.s3.UploadFile(ctx, req.Image, "recipes/image")
}
