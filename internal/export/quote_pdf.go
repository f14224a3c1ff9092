package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/woodfy/workshop-api/internal/domain"
)

const quoteFont = "Helvetica"

// BudgetQuotePDF renders the customer-facing quote of a budget. Item lines
// show description and quantity only; the customer sees the final price.
func (e *Exporter) BudgetQuotePDF(budget domain.Budget, customerName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("Orçamento "+budget.ID, true)
	pdf.AddPage()

	// core fonts are cp1252; accents need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(quoteFont, "B", 16)
	pdf.CellFormat(0, 10, tr("Orçamento"), "", 1, "C", false, 0, "")
	if budget.Title != "" {
		pdf.SetFont(quoteFont, "", 12)
		pdf.CellFormat(0, 7, tr(budget.Title), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(quoteFont, "", 11)
	pdf.CellFormat(0, 6, tr("Cliente: "+safeValue(customerName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Data: "+formatDate(budget.Date)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Nº: "+budget.ID), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{150, 30}
	drawTableRow(pdf, tr, []string{"Descrição", "Quantidade"}, widths, true)
	for _, item := range budget.Items {
		drawTableRow(pdf, tr, []string{item.Description, formatQuantity(item.Quantity)}, widths, false)
	}
	pdf.Ln(4)

	pdf.SetFont(quoteFont, "B", 13)
	pdf.CellFormat(0, 8, tr("Valor total: "+e.format.Amount(budget.FinalPrice)), "", 1, "R", false, 0, "")
	pdf.SetFont(quoteFont, "", 10)
	if budget.TaxRatePercent > 0 {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Impostos inclusos (%s%%)", formatQuantity(budget.TaxRatePercent))), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(quoteFont, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return safeValue(date)
	}
	return t.Format("02/01/2006")
}

func formatQuantity(v float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	return strings.Replace(s, ".", ",", 1)
}
