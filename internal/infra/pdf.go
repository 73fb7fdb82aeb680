package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"lojalink/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateReceiptPDF renders a simple A6 receipt for a delivered order and
// returns the file path. Item names come preloaded on the order.
func GenerateReceiptPDF(o *model.Order, storeName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(6, 8, 6)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, storeName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 4, fmt.Sprintf("Pedido %s", o.ID.String()[:8]), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 4, o.CreatedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range o.Items {
		name := "item"
		if item.Product != nil {
			name = item.Product.Name
		}
		line := fmt.Sprintf("%dx %s", item.Qty, name)
		sub := item.UnitPrice.Mul(intToDecimal(item.Qty))
		pdf.CellFormat(32, 4, line, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 4, "R$ "+sub.StringFixed(2), "", 1, "R", false, 0, "")
		if item.Note != "" {
			pdf.SetFont("Helvetica", "I", 7)
			pdf.MultiCell(0, 3.5, item.Note, "", "L", false)
			pdf.SetFont("Helvetica", "", 8)
		}
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(32, 5, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "R$ "+o.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	path := filepath.Join(storagePath, fmt.Sprintf("receipt-%s.pdf", o.ID))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", path, err)
	}
	return path, nil
}

func intToDecimal(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
