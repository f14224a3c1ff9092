package domain

// ProjectDTO is the API view of a project with its derived financial figures
type ProjectDTO struct {
	Project
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"marginPercent"`
	OverBudget    bool    `json:"overBudget"`
	Locked        bool    `json:"locked"`
	LockedBy      string  `json:"lockedByBudgetId,omitempty"`
}

// ProjectDraftDTO is the price state a project form should display
type ProjectDraftDTO struct {
	ValueSold     float64 `json:"valueSold"`
	EstimatedCost float64 `json:"estimatedCost"`
	Locked        bool    `json:"locked"`
	LockedBy      string  `json:"lockedByBudgetId,omitempty"`
	Cleared       bool    `json:"cleared"`
}

// BudgetDTO is the API view of a budget including the derived profit figures
type BudgetDTO struct {
	Budget
	CustomerName  string  `json:"customerName,omitempty"`
	TaxAmount     float64 `json:"taxAmount"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"marginPercent"`
}

// PriceQuoteDTO is the response of the price calculators
type PriceQuoteDTO struct {
	Cost          float64 `json:"cost"`
	Price         float64 `json:"price"`
	TaxAmount     float64 `json:"taxAmount"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"marginPercent"`
}

// ListResponse wraps a collection response
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

// DeleteResult reports a delete and the records removed alongside it
type DeleteResult struct {
	ID              string   `json:"id"`
	RemovedCosts    []string `json:"removedCosts,omitempty"`
	RemovedRevenues []string `json:"removedRevenues,omitempty"`
}

// AuthUserDTO describes the authenticated caller
type AuthUserDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
	AuthType string   `json:"authType"`
	CanWrite bool     `json:"canWrite"`
}
