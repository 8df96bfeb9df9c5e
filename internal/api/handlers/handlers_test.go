package handlers

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"foodgram-backend/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"recipe not found", domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{"user not found", domain.ErrUserNotFound, fiber.StatusNotFound},
		{"membership not found", domain.ErrMembershipNotFound, fiber.StatusNotFound},
		{"subscription not found", domain.ErrSubscriptionNotFound, fiber.StatusNotFound},
		{"recipe access forbidden", domain.ErrRecipeAccessForbidden, fiber.StatusForbidden},
		{"user not allowed", domain.ErrUserNotAllowed, fiber.StatusForbidden},
		{"bad credentials", domain.ErrCredentialsNotMatched, fiber.StatusUnauthorized},
		{"invalid cooking time", domain.ErrInvalidCookingTime, fiber.StatusBadRequest},
		{"no ingredients", domain.ErrNoIngredients, fiber.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, fiber.StatusBadRequest},
		{"duplicate ingredient", domain.ErrDuplicateIngredient, fiber.StatusBadRequest},
		{"unknown ingredient", domain.ErrIngredientNotFound, fiber.StatusBadRequest},
		{"unknown tag", domain.ErrTagNotFound, fiber.StatusBadRequest},
		{"duplicate membership", domain.ErrMembershipExists, fiber.StatusBadRequest},
		{"self subscribe", domain.ErrSelfSubscribe, fiber.StatusBadRequest},
		{"already subscribed", domain.ErrAlreadySubscribed, fiber.StatusBadRequest},
		{"email taken", domain.ErrEmailAlreadyExists, fiber.StatusBadRequest},
		{"username taken", domain.ErrUsernameAlreadyExists, fiber.StatusBadRequest},
		{"password mismatch", domain.ErrPasswordNotMatch, fiber.StatusBadRequest},
		{"token expired", domain.ErrTokenExpired, fiber.StatusBadRequest},
		{"token invalid", domain.ErrTokenInvalid, fiber.StatusBadRequest},
		{"bad uuid", domain.ErrParseUUID, fiber.StatusBadRequest},
		{"db down", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), fiber.StatusInternalServerError},
		{"untranslated constraint", errors.New("pq: deadlock detected"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusForError(tc.err))
		})
	}
}

func TestErrorResponseMasksInfrastructureErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errorResponse(c, domain.MessageFailedGetRecipes, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return errorResponse(c, domain.MessageFailedSubscribe, domain.ErrAlreadySubscribed)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "dial tcp")
	assert.Contains(t, string(body), "internal server error")

	// domain errors keep their message
	resp, err = app.Test(httptest.NewRequest("GET", "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), domain.ErrAlreadySubscribed.Error())
}
