package domain

import "errors"

var (
	MessageSuccessAddFavorite    = "recipe added to favorites"
	MessageSuccessRemoveFavorite = "recipe removed from favorites"
	MessageSuccessAddCart        = "recipe added to shopping cart"
	MessageSuccessRemoveCart     = "recipe removed from shopping cart"

	MessageFailedAddFavorite    = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite = "failed to remove recipe from favorites"
	MessageFailedAddCart        = "failed to add recipe to shopping cart"
	MessageFailedRemoveCart     = "failed to remove recipe from shopping cart"

	ErrMembershipExists   = errors.New("recipe already added")
	ErrMembershipNotFound = errors.New("recipe is not in the list")
)
