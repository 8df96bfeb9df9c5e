package shoppinglist

import (
	"context"

	"foodgram-backend/domain"
	"foodgram-backend/internal/utils/pdf"

	"github.com/google/uuid"
)

type (
	ShoppingListService interface {
		ComputeShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		DownloadShoppingList(ctx context.Context, userID string) ([]byte, error)
	}

	shoppingListService struct {
		shoppingListRepository ShoppingListRepository
	}
)

func NewShoppingListService(shoppingListRepository ShoppingListRepository) ShoppingListService {
	return &shoppingListService{shoppingListRepository: shoppingListRepository}
}

// ComputeShoppingList merges the ingredient rows of every recipe in the
// user's cart. Rows are grouped by ingredient id, amounts summed, lines
// emitted in first-seen order with a 1-based index. An empty cart gives
// an empty list, not an error.
func (s *shoppingListService) ComputeShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	rows, err := s.shoppingListRepository.GetCartIngredientRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ShoppingListItem, 0)
	position := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		if idx, ok := position[row.IngredientID]; ok {
			items[idx].Amount += row.Amount
			continue
		}

		item := domain.ShoppingListItem{
			Index:  len(items) + 1,
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			item.Name = row.Ingredient.Name
			item.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		position[row.IngredientID] = len(items)
		items = append(items, item)
	}

	return items, nil
}

func (s *shoppingListService) DownloadShoppingList(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.ComputeShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	return pdf.RenderShoppingList(items)
}
