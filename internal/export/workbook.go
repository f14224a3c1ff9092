package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/woodfy/workshop-api/internal/finance"
)

const (
	sheetSummary      = "Resumo"
	sheetTransactions = "Lançamentos"
	sheetPending      = "Pendências"

	// numFmtAmount is the built-in "#,##0.00" format
	numFmtAmount = 4
)

// Exporter renders documents with amounts in one currency
type Exporter struct {
	format Formatter
}

// NewExporter creates an exporter for an ISO 4217 currency code
func NewExporter(currency string) *Exporter {
	return &Exporter{format: NewFormatter(currency)}
}

// Formatter returns the amount formatter used by the exporter
func (e *Exporter) Formatter() Formatter {
	return e.format
}

// LedgerWorkbook writes the monthly summaries, every transaction they hold
// and the pending projection into an xlsx workbook.
func (e *Exporter) LedgerWorkbook(months []finance.MonthSummary, pending finance.PendingProjection) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	styles, err := newWorkbookStyles(file)
	if err != nil {
		return nil, err
	}

	file.SetSheetName("Sheet1", sheetSummary)
	e.writeSummary(file, styles, months)

	if _, err := file.NewSheet(sheetTransactions); err != nil {
		return nil, err
	}
	e.writeTransactions(file, styles, months)

	if _, err := file.NewSheet(sheetPending); err != nil {
		return nil, err
	}
	e.writePending(file, styles, pending)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type workbookStyles struct {
	header int
	amount int
}

func newWorkbookStyles(file *excelize.File) (workbookStyles, error) {
	header, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return workbookStyles{}, fmt.Errorf("failed to create header style: %w", err)
	}
	amount, err := file.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return workbookStyles{}, fmt.Errorf("failed to create amount style: %w", err)
	}
	return workbookStyles{header: header, amount: amount}, nil
}

func writeHeader(file *excelize.File, sheet string, style int, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = file.SetCellStyle(sheet, "A1", last, style)
}

func (e *Exporter) writeSummary(file *excelize.File, styles workbookStyles, months []finance.MonthSummary) {
	sheet := sheetSummary
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	writeHeader(file, sheet, styles.header, []string{"Mês", "Entradas", "Saídas", "Saldo", "Margem (%)"})
	for i, m := range months {
		row := i + 2
		set(fmt.Sprintf("A%d", row), m.Month)
		set(fmt.Sprintf("B%d", row), m.TotalIn)
		set(fmt.Sprintf("C%d", row), m.TotalOut)
		set(fmt.Sprintf("D%d", row), m.Balance)
		set(fmt.Sprintf("E%d", row), m.ProfitMarginPercent)
	}
	if len(months) > 0 {
		_ = file.SetCellStyle(sheet, "B2", fmt.Sprintf("E%d", len(months)+1), styles.amount)
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "E", 16)
}

func (e *Exporter) writeTransactions(file *excelize.File, styles workbookStyles, months []finance.MonthSummary) {
	sheet := sheetTransactions
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	writeHeader(file, sheet, styles.header, []string{"Data", "Tipo", "Descrição", "Categoria", "Forma de pagamento", "Valor"})
	row := 2
	for _, m := range months {
		for _, tx := range m.Transactions {
			set(fmt.Sprintf("A%d", row), tx.Date)
			set(fmt.Sprintf("B%d", row), kindLabel(tx.Kind))
			set(fmt.Sprintf("C%d", row), tx.Description)
			set(fmt.Sprintf("D%d", row), tx.Category)
			set(fmt.Sprintf("E%d", row), tx.PaymentMethod)
			set(fmt.Sprintf("F%d", row), tx.Value)
			row++
		}
	}
	if row > 2 {
		_ = file.SetCellStyle(sheet, "F2", fmt.Sprintf("F%d", row-1), styles.amount)
	}

	_ = file.SetColWidth(sheet, "A", "B", 12)
	_ = file.SetColWidth(sheet, "C", "C", 40)
	_ = file.SetColWidth(sheet, "D", "E", 20)
	_ = file.SetColWidth(sheet, "F", "F", 14)
}

func (e *Exporter) writePending(file *excelize.File, styles workbookStyles, pending finance.PendingProjection) {
	sheet := sheetPending
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	writeHeader(file, sheet, styles.header, []string{"Mês", "A receber", "A pagar", "Líquido"})
	for i, m := range pending.Months {
		row := i + 2
		set(fmt.Sprintf("A%d", row), m.Month)
		set(fmt.Sprintf("B%d", row), m.Receivable)
		set(fmt.Sprintf("C%d", row), m.Payable)
		set(fmt.Sprintf("D%d", row), m.Net)
	}

	total := len(pending.Months) + 2
	set(fmt.Sprintf("A%d", total), "Total em aberto")
	set(fmt.Sprintf("B%d", total), pending.Receivable)
	set(fmt.Sprintf("C%d", total), pending.Payable)
	set(fmt.Sprintf("D%d", total), pending.NetPending)
	_ = file.SetCellStyle(sheet, fmt.Sprintf("A%d", total), fmt.Sprintf("A%d", total), styles.header)
	_ = file.SetCellStyle(sheet, "B2", fmt.Sprintf("D%d", total), styles.amount)

	_ = file.SetColWidth(sheet, "A", "A", 16)
	_ = file.SetColWidth(sheet, "B", "D", 16)
}

func kindLabel(k finance.OriginKind) string {
	switch k {
	case finance.OriginRevenue:
		return "Receita"
	case finance.OriginCost:
		return "Custo"
	case finance.OriginExpense:
		return "Despesa"
	}
	return string(k)
}
