package reports

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteLowStockCSV serialises low stock rows.
func WriteLowStockCSV(w io.Writer, items []StockItem) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "SKU", "Name", "Quantity", "Unit Price"}); err != nil {
		return err
	}
	for _, it := range items {
		if err := writer.Write([]string{
			it.ID.String(),
			it.SKU,
			it.Name,
			strconv.FormatInt(it.Quantity, 10),
			it.UnitPrice.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
