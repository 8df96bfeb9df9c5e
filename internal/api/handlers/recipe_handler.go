package handlers

import (
	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/membership"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/shoppinglist"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		UploadRecipeImage(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService       recipe.RecipeService
		membershipService   membership.MembershipService
		shoppingListService shoppinglist.ShoppingListService
		validator           *validator.Validate
	}
)

func NewRecipeHandler(
	recipeService recipe.RecipeService,
	membershipService membership.MembershipService,
	shoppingListService shoppinglist.ShoppingListService,
	validator *validator.Validate,
) RecipeHandler {
	return &recipeHandler{
		recipeService:       recipeService,
		membershipService:   membershipService,
		shoppingListService: shoppingListService,
		validator:           validator,
	}
}

func parseRecipeFilter(c *fiber.Ctx) domain.RecipeFilter {
	filter := domain.RecipeFilter{
		AuthorID:         c.Query("author", ""),
		IsFavorited:      c.QueryBool("is_favorited", false),
		IsInShoppingCart: c.QueryBool("is_in_shopping_cart", false),
		ViewerID:         viewerID(c),
	}

	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		filter.TagSlugs = append(filter.TagSlugs, string(slug))
	}

	return filter
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	recipes, count, err := h.recipeService.GetRecipes(c.Context(), parseRecipeFilter(c), page, limit)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"recipes": recipes,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeDetail(c.Context(), c.Params("id"), viewerID(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipe)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, userID)
	if err != nil {
		return errorResponse(c, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), *req, c.Params("id"), userID, viewerRole(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), userID, viewerRole(c)); err != nil {
		return errorResponse(c, domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) UploadRecipeImage(c *fiber.Ctx) error {
	image, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req := domain.UploadRecipeImageRequest{Image: image}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	url, err := h.recipeService.UploadRecipeImage(c.Context(), req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"image_url": url}, fiber.StatusCreated, domain.MessageSuccessUploadImage)
}

func (h *recipeHandler) addMembership(c *fiber.Ctx, kind membership.Kind, failed, succeeded string) error {
	userID := c.Locals("user_id").(string)

	res, err := h.membershipService.Add(c.Context(), kind, userID, c.Params("id"))
	if err != nil {
		return errorResponse(c, failed, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, succeeded)
}

func (h *recipeHandler) removeMembership(c *fiber.Ctx, kind membership.Kind, failed, succeeded string) error {
	userID := c.Locals("user_id").(string)

	if err := h.membershipService.Remove(c.Context(), kind, userID, c.Params("id")); err != nil {
		return errorResponse(c, failed, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, succeeded)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	return h.addMembership(c, membership.KindFavorite, domain.MessageFailedAddFavorite, domain.MessageSuccessAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	return h.removeMembership(c, membership.KindFavorite, domain.MessageFailedRemoveFavorite, domain.MessageSuccessRemoveFavorite)
}

func (h *recipeHandler) AddToCart(c *fiber.Ctx) error {
	return h.addMembership(c, membership.KindCart, domain.MessageFailedAddCart, domain.MessageSuccessAddCart)
}

func (h *recipeHandler) RemoveFromCart(c *fiber.Ctx) error {
	return h.removeMembership(c, membership.KindCart, domain.MessageFailedRemoveCart, domain.MessageSuccessRemoveCart)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	document, err := h.shoppingListService.DownloadShoppingList(c.Context(), userID)
	if err != nil {
		return errorResponse(c, domain.MessageFailedDownloadCart, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shopping_list.pdf"`)
	return c.Send(document)
}
