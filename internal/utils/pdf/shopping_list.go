package pdf

import (
	"bytes"
	"fmt"

	"foodgram-backend/domain"

	"github.com/jung-kurt/gofpdf"
)

// RenderShoppingList draws the merged shopping list into a one-or-more
// page PDF. An empty item list still produces a document with the header.
func RenderShoppingList(items []domain.ShoppingListItem) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, "Shopping list", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 14)
	for _, item := range items {
		line := fmt.Sprintf(
			"%d. %s - %d %s",
			item.Index, item.Name, item.Amount, item.MeasurementUnit,
		)
		doc.CellFormat(0, 9, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
