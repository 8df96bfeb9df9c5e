package domain

var (
	MessageSuccessDownloadCart = "shopping list generated"
	MessageFailedDownloadCart  = "failed to generate shopping list"
)

type (
	// ShoppingListItem is one merged line of the shopping list,
	// 1-based Index in first-seen order.
	ShoppingListItem struct {
		Index           int    `json:"index"`
		Name            string `json:"name"`
		Amount          int    `json:"amount"`
		MeasurementUnit string `json:"measurement_unit"`
	}
)
