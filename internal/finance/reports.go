package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/woodfy/workshop-api/internal/domain"
)

// ProjectCostsBucket labels project-linked costs in the expense breakdown
const ProjectCostsBucket = "Custos de projetos"

// UnspecifiedPaymentMethod labels revenue recorded without a payment method
const UnspecifiedPaymentMethod = "Não especificado"

// DashboardStats is the headline summary of the business
type DashboardStats struct {
	GrossRevenue      float64 `json:"grossRevenue"`
	TotalCosts        float64 `json:"totalCosts"`
	NetProfit         float64 `json:"netProfit"`
	RealMarginPercent float64 `json:"realMarginPercent"`
	ActiveProjects    int     `json:"activeProjects"`
	DelayedProjects   int     `json:"delayedProjects"`
}

// Dashboard computes gross revenue from paid revenues and total costs from
// every cost plus paid expenses.
func Dashboard(c Collections) DashboardStats {
	gross, costs := decimal.Zero, decimal.Zero
	for _, r := range c.Revenues {
		if r.Status == domain.PaymentStatusPaid {
			gross = gross.Add(amount(r.Value))
		}
	}
	for _, co := range c.Costs {
		costs = costs.Add(amount(co.Value))
	}
	for _, e := range c.Expenses {
		if e.Status == domain.PaymentStatusPaid {
			costs = costs.Add(amount(e.Value))
		}
	}

	stats := DashboardStats{
		GrossRevenue:      float(gross),
		TotalCosts:        float(costs),
		NetProfit:         float(gross.Sub(costs)),
		RealMarginPercent: percent(gross.Sub(costs), gross),
	}
	for _, p := range c.Projects {
		switch p.Status {
		case domain.ProjectStatusInProgress:
			stats.ActiveProjects++
		case domain.ProjectStatusDelayed:
			stats.DelayedProjects++
		}
	}
	return stats
}

// MonthFlow is revenue against outflow for one month
type MonthFlow struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Costs   float64 `json:"costs"`
	Profit  float64 `json:"profit"`
}

// RevenueVsCost returns the realized flow of the last n months up to and
// including the month of asOf, oldest first.
func RevenueVsCost(txs []Transaction, n int, asOf time.Time) []MonthFlow {
	if n <= 0 {
		return []MonthFlow{}
	}
	groups := GroupByMonth(txs)
	first := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := make([]MonthFlow, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := first.AddDate(0, -i, 0).Format("2006-01")
		s := Summarize(key, groups[key])
		out = append(out, MonthFlow{
			Month:   key,
			Revenue: s.TotalIn,
			Costs:   -s.TotalOut,
			Profit:  s.Balance,
		})
	}
	return out
}

// ProjectMargin is the realized margin of a finished project
type ProjectMargin struct {
	ProjectID     string  `json:"projectId"`
	Code          string  `json:"code"`
	ClientName    string  `json:"clientName"`
	MarginPercent float64 `json:"marginPercent"`
}

// ProjectMargins ranks FINISHED projects with a sale price by realized
// margin, highest first, keeping at most limit entries.
func ProjectMargins(projects []domain.Project, limit int) []ProjectMargin {
	out := []ProjectMargin{}
	for _, p := range projects {
		if p.Status != domain.ProjectStatusFinished || p.ValueSold <= 0 {
			continue
		}
		sold := amount(p.ValueSold)
		margin := sold.Sub(amount(p.RealCost)).Div(sold).Mul(hundred).Round(1)
		out = append(out, ProjectMargin{
			ProjectID:     p.ID,
			Code:          p.Code,
			ClientName:    p.ClientName,
			MarginPercent: margin.InexactFloat64(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MarginPercent > out[j].MarginPercent
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ProjectFinancials is the profit view of a single project
type ProjectFinancials struct {
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"marginPercent"`
	OverBudget    bool    `json:"overBudget"`
}

// FinancialsOf compares a project's sale price with its realized cost
func FinancialsOf(p domain.Project) ProjectFinancials {
	sold := amount(p.ValueSold)
	profit := sold.Sub(amount(p.RealCost))
	return ProjectFinancials{
		Profit:        float(profit),
		MarginPercent: percent(profit, sold),
		OverBudget:    amount(p.RealCost).GreaterThan(amount(p.EstimatedCost)),
	}
}

// Share is an amount attributed to a label
type Share struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func sortedShares(totals map[string]decimal.Decimal) []Share {
	out := make([]Share, 0, len(totals))
	for label, v := range totals {
		out = append(out, Share{Label: label, Value: float(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// ExpenseBreakdown splits the outflow of a YYYY-MM month into paid expense
// categories plus one bucket for project-linked costs, largest first.
func ExpenseBreakdown(costs []domain.Cost, expenses []domain.GeneralExpense, month string) []Share {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if e.Status != domain.PaymentStatusPaid || Month(e.DueDate) != month {
			continue
		}
		label := e.Category.Label()
		totals[label] = totals[label].Add(amount(e.Value))
	}
	for _, c := range costs {
		if c.ProjectID == "" || Month(c.Date) != month {
			continue
		}
		totals[ProjectCostsBucket] = totals[ProjectCostsBucket].Add(amount(c.Value))
	}
	return sortedShares(totals)
}

// AnnualProfit is the realized result of one calendar year
type AnnualProfit struct {
	Year          int     `json:"year"`
	Income        float64 `json:"income"`
	Outcome       float64 `json:"outcome"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"marginPercent"`
}

// AnnualProfitOf totals the ledger transactions dated within year
func AnnualProfitOf(txs []Transaction, year int) AnnualProfit {
	prefix := fmt.Sprintf("%04d-", year)
	in, out := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if len(tx.Date) < 5 || tx.Date[:5] != prefix {
			continue
		}
		v := amount(tx.Value)
		if v.IsPositive() {
			in = in.Add(v)
		} else {
			out = out.Sub(v)
		}
	}
	return AnnualProfit{
		Year:          year,
		Income:        float(in),
		Outcome:       float(out),
		Profit:        float(in.Sub(out)),
		MarginPercent: percent(in.Sub(out), in),
	}
}

// RevenueByCustomer sums ValueSold of PAID projects per client name
func RevenueByCustomer(projects []domain.Project) []Share {
	totals := make(map[string]decimal.Decimal)
	for _, p := range projects {
		if p.PaymentStatus != domain.PaymentStatusPaid {
			continue
		}
		totals[p.ClientName] = totals[p.ClientName].Add(amount(p.ValueSold))
	}
	return sortedShares(totals)
}

// PaymentMethodBreakdown sums PAID revenue per payment method
func PaymentMethodBreakdown(revenues []domain.Revenue) []Share {
	totals := make(map[string]decimal.Decimal)
	for _, r := range revenues {
		if r.Status != domain.PaymentStatusPaid {
			continue
		}
		method := r.PaymentMethod
		if method == "" {
			method = UnspecifiedPaymentMethod
		}
		totals[method] = totals[method].Add(amount(r.Value))
	}
	return sortedShares(totals)
}

// UpcomingDelivery is an in-progress project close to its delivery date
type UpcomingDelivery struct {
	ProjectID    string `json:"projectId"`
	Code         string `json:"code"`
	ClientName   string `json:"clientName"`
	DeliveryDate string `json:"deliveryDate"`
	DaysLeft     int    `json:"daysLeft"`
}

// UpcomingDeliveries lists IN_PROGRESS projects due within windowDays of
// asOf, overdue ones included, soonest first.
func UpcomingDeliveries(projects []domain.Project, asOf time.Time, windowDays int) []UpcomingDelivery {
	today := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	out := []UpcomingDelivery{}
	for _, p := range projects {
		if p.Status != domain.ProjectStatusInProgress || p.DeliveryDate == "" {
			continue
		}
		due, err := time.Parse("2006-01-02", p.DeliveryDate)
		if err != nil {
			continue
		}
		days := int(due.Sub(today).Hours() / 24)
		if days > windowDays {
			continue
		}
		out = append(out, UpcomingDelivery{
			ProjectID:    p.ID,
			Code:         p.Code,
			ClientName:   p.ClientName,
			DeliveryDate: p.DeliveryDate,
			DaysLeft:     days,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeliveryDate < out[j].DeliveryDate
	})
	return out
}
