package handlers

import (
	"errors"
	"strconv"

	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"

	"github.com/gofiber/fiber/v2"
)

// viewerID returns the authenticated caller's id, or "" for anonymous
// requests behind the optional-auth middleware.
func viewerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

func viewerRole(c *fiber.Ctx) string {
	if role, ok := c.Locals("role").(string); ok {
		return role
	}
	return ""
}

func parsePagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "6"))
	if err != nil || limit < 1 {
		limit = 6
	}

	return page, limit
}

var errInternal = errors.New("internal server error")

// statusForError maps domain errors onto HTTP statuses. Conflicts come
// back as 400, matching the API this system is compatible with; errors
// outside the domain taxonomy are infrastructure failures and become 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrMembershipNotFound),
		errors.Is(err, domain.ErrSubscriptionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrRecipeAccessForbidden),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrCredentialsNotMatched):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidCookingTime),
		errors.Is(err, domain.ErrNoIngredients),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrDuplicateIngredient),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrMembershipExists),
		errors.Is(err, domain.ErrSelfSubscribe),
		errors.Is(err, domain.ErrAlreadySubscribed),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrUsernameAlreadyExists),
		errors.Is(err, domain.ErrPasswordNotMatch),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse renders a failed service call. Unrecognized errors are
// persistence or infrastructure failures: the raw driver text stays out
// of the response body.
func errorResponse(c *fiber.Ctx, message string, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		err = errInternal
	}
	return presenters.ErrorResponse(c, status, message, err)
}
