package domain

import "errors"

var (
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrSelfSubscribe        = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed    = errors.New("already subscribed")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

type (
	SubscriptionResponse struct {
		ID           string       `json:"id"`
		Email        string       `json:"email"`
		Username     string       `json:"username"`
		FirstName    string       `json:"first_name"`
		LastName     string       `json:"last_name"`
		IsSubscribed bool         `json:"is_subscribed"`
		Recipes      []DemoRecipe `json:"recipes"`
		RecipesCount int64        `json:"recipes_count"`
	}
)
