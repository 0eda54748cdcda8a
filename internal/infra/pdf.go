package infra

// pdf.go — Reorder report generation using go-pdf/fpdf.
// Produces an A4 table of low-stock products with their current quantity,
// effective threshold, and suggested order quantity, for handing to whoever
// places the purchase orders.

import (
	"bytes"
	"fmt"
	"time"

	"github.com/AzizSouissi/store-inventory-suite/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateReorderPDF renders the reorder list as a PDF document and returns
// the raw bytes, ready to stream to the client.
func GenerateReorderPDF(items []dto.ReorderItemResponse, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "Reorder Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, "Generated "+generatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Table header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // product name
	col2 := contentW * 0.12 // unit
	col3 := contentW * 0.16 // quantity
	col4 := contentW * 0.16 // threshold
	col5 := contentW * 0.16 // suggested

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Unit", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "On hand", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Threshold", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 7, "Suggested", "B", 1, "R", false, 0, "")

	// ── Rows ──────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		name := item.Name
		if len(name) > 48 {
			name = name[:47] + "…"
		}
		threshold := "-"
		if item.LowStockThreshold != nil {
			threshold = item.LowStockThreshold.StringFixed(3)
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, item.Unit, "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, item.Quantity.StringFixed(3), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, threshold, "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, item.SuggestedOrderQuantity.StringFixed(3), "", 1, "R", false, 0, "")
	}

	if len(items) == 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 6, "No products below their threshold.", "", 1, "L", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%d product(s) need reordering", len(items)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render report: %w", err)
	}
	return buf.Bytes(), nil
}
