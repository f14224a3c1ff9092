package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/woodfy/workshop-api/internal/domain"
)

// PendingItem is an open receivable or payable
type PendingItem struct {
	ID          string               `json:"id"`
	Kind        OriginKind           `json:"kind"`
	Date        string               `json:"date"`
	Description string               `json:"description"`
	Value       float64              `json:"value"`
	Status      domain.PaymentStatus `json:"status"`
}

// PendingMonth holds the open totals of one month of the projection window
type PendingMonth struct {
	Month      string  `json:"month"`
	Receivable float64 `json:"receivable"`
	Payable    float64 `json:"payable"`
	Net        float64 `json:"net"`
}

// PendingProjection is the forward-looking view of unsettled items. It is
// independent of the realized ledger.
type PendingProjection struct {
	Year        int            `json:"year"`
	Receivable  float64        `json:"receivable"`
	Payable     float64        `json:"payable"`
	NetPending  float64        `json:"netPending"`
	Months      []PendingMonth `json:"months"`
	Receivables []PendingItem  `json:"receivables"`
	Payables    []PendingItem  `json:"payables"`
}

// BuildPendingProjection totals PENDING and OVERDUE revenues and expenses.
// The overall totals cover every open item; the Months window holds the 12
// months of year, keyed YYYY-MM, and only counts items dated inside it.
func BuildPendingProjection(revenues []domain.Revenue, expenses []domain.GeneralExpense, projects []domain.Project, year int) PendingProjection {
	byID := indexProjects(projects)

	monthIn := make([]decimal.Decimal, 12)
	monthOut := make([]decimal.Decimal, 12)
	keys := make(map[string]int, 12)
	for i := 0; i < 12; i++ {
		keys[fmt.Sprintf("%04d-%02d", year, i+1)] = i
	}

	proj := PendingProjection{
		Year:        year,
		Receivables: []PendingItem{},
		Payables:    []PendingItem{},
	}
	receivable, payable := decimal.Zero, decimal.Zero

	for _, r := range revenues {
		if !r.Status.IsOpen() {
			continue
		}
		v := amount(r.Value)
		receivable = receivable.Add(v)
		if i, ok := keys[Month(r.Date)]; ok {
			monthIn[i] = monthIn[i].Add(v)
		}
		proj.Receivables = append(proj.Receivables, PendingItem{
			ID:          r.ID,
			Kind:        OriginRevenue,
			Date:        r.Date,
			Description: revenueDescription(r, byID),
			Value:       float(v),
			Status:      r.Status,
		})
	}

	for _, e := range expenses {
		if !e.Status.IsOpen() {
			continue
		}
		v := amount(e.Value)
		payable = payable.Add(v)
		if i, ok := keys[Month(e.DueDate)]; ok {
			monthOut[i] = monthOut[i].Add(v)
		}
		proj.Payables = append(proj.Payables, PendingItem{
			ID:          e.ID,
			Kind:        OriginExpense,
			Date:        e.DueDate,
			Description: e.Description,
			Value:       float(v),
			Status:      e.Status,
		})
	}

	proj.Receivable = float(receivable)
	proj.Payable = float(payable)
	proj.NetPending = float(receivable.Sub(payable))

	proj.Months = make([]PendingMonth, 12)
	for i := range proj.Months {
		proj.Months[i] = PendingMonth{
			Month:      fmt.Sprintf("%04d-%02d", year, i+1),
			Receivable: float(monthIn[i]),
			Payable:    float(monthOut[i]),
			Net:        float(monthIn[i].Sub(monthOut[i])),
		}
	}

	return proj
}
