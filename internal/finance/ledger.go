package finance

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/woodfy/workshop-api/internal/domain"
)

// OriginKind names the collection a ledger transaction was built from. It
// routes edits and deletes back to the right record.
type OriginKind string

const (
	OriginRevenue OriginKind = "revenue"
	OriginCost    OriginKind = "cost"
	OriginExpense OriginKind = "expense"
)

// Valid reports whether k is a known origin kind
func (k OriginKind) Valid() bool {
	switch k {
	case OriginRevenue, OriginCost, OriginExpense:
		return true
	}
	return false
}

// StandaloneRevenueCategory labels revenue that is not linked to a project
const StandaloneRevenueCategory = "Receita Avulsa"

// Transaction is one signed cash movement. Inflows are positive and
// outflows negative.
type Transaction struct {
	ID            string     `json:"id"`
	Kind          OriginKind `json:"kind"`
	Date          string     `json:"date"`
	Description   string     `json:"description"`
	Category      string     `json:"category,omitempty"`
	Value         float64    `json:"value"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	ProjectID     string     `json:"projectId,omitempty"`
}

// MonthSummary aggregates the transactions of one calendar month
type MonthSummary struct {
	Month               string        `json:"month"`
	TotalIn             float64       `json:"totalIn"`
	TotalOut            float64       `json:"totalOut"`
	Balance             float64       `json:"balance"`
	ProfitMarginPercent float64       `json:"profitMarginPercent"`
	Transactions        []Transaction `json:"transactions"`
}

// BuildLedger merges paid revenues, all costs and paid expenses into one
// stream sorted by date, newest first. Entries sharing a date keep the order
// revenues, costs, expenses, each in collection order.
func BuildLedger(revenues []domain.Revenue, costs []domain.Cost, expenses []domain.GeneralExpense, projects []domain.Project) []Transaction {
	byID := indexProjects(projects)
	txs := make([]Transaction, 0, len(revenues)+len(costs)+len(expenses))

	for _, r := range revenues {
		if r.Status != domain.PaymentStatusPaid {
			continue
		}
		txs = append(txs, Transaction{
			ID:            r.ID,
			Kind:          OriginRevenue,
			Date:          r.Date,
			Description:   revenueDescription(r, byID),
			Category:      revenueCategory(r, byID),
			Value:         float(amount(r.Value)),
			PaymentMethod: r.PaymentMethod,
			ProjectID:     r.ProjectID,
		})
	}

	for _, c := range costs {
		desc := c.Description
		if p, ok := byID[c.ProjectID]; ok {
			desc = projectLabel(p)
		}
		txs = append(txs, Transaction{
			ID:            c.ID,
			Kind:          OriginCost,
			Date:          c.Date,
			Description:   desc,
			Category:      c.Category.Label(),
			Value:         float(amount(c.Value).Neg()),
			PaymentMethod: c.PaymentMethod,
			ProjectID:     c.ProjectID,
		})
	}

	for _, e := range expenses {
		if e.Status != domain.PaymentStatusPaid {
			continue
		}
		desc := e.Description
		if desc == "" {
			desc = e.Category.Label()
		}
		txs = append(txs, Transaction{
			ID:          e.ID,
			Kind:        OriginExpense,
			Date:        e.DueDate,
			Description: desc,
			Category:    e.Category.Label(),
			Value:       float(amount(e.Value).Neg()),
		})
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date > txs[j].Date
	})
	return txs
}

// GroupByMonth partitions transactions by the YYYY-MM prefix of their date.
// Order inside each bucket follows the input order.
func GroupByMonth(txs []Transaction) map[string][]Transaction {
	groups := make(map[string][]Transaction)
	for _, tx := range txs {
		key := Month(tx.Date)
		groups[key] = append(groups[key], tx)
	}
	return groups
}

// Summarize computes the totals of a set of transactions
func Summarize(month string, txs []Transaction) MonthSummary {
	in, out := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		v := amount(tx.Value)
		if v.IsPositive() {
			in = in.Add(v)
		} else if v.IsNegative() {
			out = out.Add(v)
		}
	}
	balance := in.Add(out)

	return MonthSummary{
		Month:               month,
		TotalIn:             float(in),
		TotalOut:            float(out),
		Balance:             float(balance),
		ProfitMarginPercent: percent(balance, in),
		Transactions:        txs,
	}
}

// MonthlySummaries groups transactions by month and summarizes each bucket,
// newest month first.
func MonthlySummaries(txs []Transaction) []MonthSummary {
	groups := GroupByMonth(txs)
	months := make([]string, 0, len(groups))
	for m := range groups {
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	out := make([]MonthSummary, 0, len(months))
	for _, m := range months {
		out = append(out, Summarize(m, groups[m]))
	}
	return out
}

func indexProjects(projects []domain.Project) map[string]domain.Project {
	byID := make(map[string]domain.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	return byID
}

func projectLabel(p domain.Project) string {
	if p.ClientName == "" {
		return p.Code
	}
	return p.Code + " - " + p.ClientName
}

func revenueDescription(r domain.Revenue, byID map[string]domain.Project) string {
	if p, ok := byID[r.ProjectID]; ok {
		return projectLabel(p)
	}
	if r.Description != "" {
		return r.Description
	}
	return revenueCategory(r, byID)
}

func revenueCategory(r domain.Revenue, byID map[string]domain.Project) string {
	if p, ok := byID[r.ProjectID]; ok && p.FurnitureType != "" {
		return p.FurnitureType
	}
	if r.Category != "" {
		return r.Category
	}
	return StandaloneRevenueCategory
}
