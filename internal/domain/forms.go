package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownFormKind is returned when a tagged form payload names a kind that
// has no variant.
var ErrUnknownFormKind = errors.New("unknown form kind")

// RevenueKind tags the variants of a revenue entry form
type RevenueKind string

const (
	RevenueKindProject    RevenueKind = "project"
	RevenueKindStandalone RevenueKind = "standalone"
)

// RevenueInput is either a ProjectRevenueInput or a StandaloneRevenueInput.
// Each variant carries exactly the fields it requires.
type RevenueInput interface {
	RevenueKind() RevenueKind
	ToRevenue(id string) Revenue
}

// ProjectRevenueInput records a payment received for a project
type ProjectRevenueInput struct {
	ProjectID     string        `json:"projectId" validate:"required"`
	Value         float64       `json:"value" validate:"gt=0"`
	PaymentMethod string        `json:"paymentMethod" validate:"required"`
	Date          string        `json:"date" validate:"required,datetime=2006-01-02"`
	Status        PaymentStatus `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
}

func (ProjectRevenueInput) RevenueKind() RevenueKind { return RevenueKindProject }

func (in ProjectRevenueInput) ToRevenue(id string) Revenue {
	return Revenue{
		ID:            id,
		ProjectID:     in.ProjectID,
		Value:         in.Value,
		PaymentMethod: in.PaymentMethod,
		Date:          in.Date,
		Status:        in.Status,
	}
}

// StandaloneRevenueInput records income that is not tied to a project
type StandaloneRevenueInput struct {
	Description   string        `json:"description" validate:"required,max=200"`
	Category      string        `json:"category"`
	Value         float64       `json:"value" validate:"gt=0"`
	PaymentMethod string        `json:"paymentMethod"`
	Date          string        `json:"date" validate:"required,datetime=2006-01-02"`
	Status        PaymentStatus `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
}

func (StandaloneRevenueInput) RevenueKind() RevenueKind { return RevenueKindStandalone }

func (in StandaloneRevenueInput) ToRevenue(id string) Revenue {
	return Revenue{
		ID:            id,
		Description:   in.Description,
		Category:      in.Category,
		Value:         in.Value,
		PaymentMethod: in.PaymentMethod,
		Date:          in.Date,
		Status:        in.Status,
	}
}

// DecodeRevenueInput decodes a {"kind": ...} tagged revenue payload into its variant
func DecodeRevenueInput(data []byte) (RevenueInput, error) {
	var tag struct {
		Kind RevenueKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}

	switch tag.Kind {
	case RevenueKindProject:
		var in ProjectRevenueInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, err
		}
		return in, nil
	case RevenueKindStandalone:
		var in StandaloneRevenueInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, err
		}
		return in, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormKind, tag.Kind)
	}
}

// LedgerEntryKind tags the variants of the accounts payable/receivable form
type LedgerEntryKind string

const (
	LedgerEntryReceivable LedgerEntryKind = "receivable"
	LedgerEntryPayable    LedgerEntryKind = "payable"
)

// LedgerEntryInput is either a ReceivableInput or a PayableInput
type LedgerEntryInput interface {
	EntryKind() LedgerEntryKind
}

// ReceivableInput creates a revenue expected from a client
type ReceivableInput struct {
	ProjectID     string        `json:"projectId"`
	Description   string        `json:"description" validate:"required_without=ProjectID"`
	Value         float64       `json:"value" validate:"gt=0"`
	PaymentMethod string        `json:"paymentMethod"`
	Date          string        `json:"date" validate:"required,datetime=2006-01-02"`
	Status        PaymentStatus `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
}

func (ReceivableInput) EntryKind() LedgerEntryKind { return LedgerEntryReceivable }

// PayableInput creates a general expense. The description defaults to the
// category label unless the category is OTHER, which needs a manual one.
type PayableInput struct {
	Category    ExpenseCategory `json:"category" validate:"required,oneof=RENT ENERGY MARKETING TOOLS TAXES OTHER"`
	Description string          `json:"description" validate:"required_if=Category OTHER"`
	Value       float64         `json:"value" validate:"gt=0"`
	DueDate     string          `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Status      PaymentStatus   `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
	SupplierID  string          `json:"supplierId"`
}

func (PayableInput) EntryKind() LedgerEntryKind { return LedgerEntryPayable }

// ResolvedDescription returns the description to store on the expense
func (in PayableInput) ResolvedDescription() string {
	if in.Category != ExpenseCategoryOther && in.Description == "" {
		return in.Category.Label()
	}
	return in.Description
}

// DecodeLedgerEntryInput decodes a {"kind": ...} tagged ledger entry payload
func DecodeLedgerEntryInput(data []byte) (LedgerEntryInput, error) {
	var tag struct {
		Kind LedgerEntryKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}

	switch tag.Kind {
	case LedgerEntryReceivable:
		var in ReceivableInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, err
		}
		return in, nil
	case LedgerEntryPayable:
		var in PayableInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, err
		}
		return in, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormKind, tag.Kind)
	}
}

// EditMode distinguishes a project being created from one being edited. It
// governs whether a stale budget-locked price is cleared on customer switch.
type EditMode string

const (
	EditModeNew      EditMode = "new"
	EditModeExisting EditMode = "existing"
)

// CreateProjectRequest is the payload for creating a project
type CreateProjectRequest struct {
	ClientID      string        `json:"clientId" validate:"required"`
	FurnitureType string        `json:"type" validate:"required"`
	Description   string        `json:"description" validate:"max=1000"`
	StartDate     string        `json:"startDate" validate:"required,datetime=2006-01-02"`
	DeliveryDate  string        `json:"deliveryDate" validate:"omitempty,datetime=2006-01-02"`
	ValueSold     float64       `json:"valueSold" validate:"gte=0"`
	EstimatedCost float64       `json:"estimatedCost" validate:"gte=0"`
	Status        ProjectStatus `json:"status" validate:"omitempty,oneof=IN_PROGRESS FINISHED DELAYED"`
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=PENDING PAID OVERDUE"`
}

// UpdateProjectRequest is the payload for editing a project. Nil price fields
// are left untouched.
type UpdateProjectRequest struct {
	ClientID      string        `json:"clientId" validate:"required"`
	FurnitureType string        `json:"type" validate:"required"`
	Description   string        `json:"description" validate:"max=1000"`
	StartDate     string        `json:"startDate" validate:"required,datetime=2006-01-02"`
	DeliveryDate  string        `json:"deliveryDate" validate:"omitempty,datetime=2006-01-02"`
	ValueSold     *float64      `json:"valueSold" validate:"omitempty,gte=0"`
	EstimatedCost *float64      `json:"estimatedCost" validate:"omitempty,gte=0"`
	Status        ProjectStatus `json:"status" validate:"required,oneof=IN_PROGRESS FINISHED DELAYED"`
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"required,oneof=PENDING PAID OVERDUE"`
}

// ProjectDraftRequest asks for the price fields a project form should show
// after its customer changed.
type ProjectDraftRequest struct {
	Mode             EditMode `json:"mode" validate:"required,oneof=new existing"`
	PreviousClientID string   `json:"previousClientId"`
	ClientID         string   `json:"clientId"`
	ValueSold        float64  `json:"valueSold" validate:"gte=0"`
	EstimatedCost    float64  `json:"estimatedCost" validate:"gte=0"`
}

// CostRequest is the payload for creating or updating a cost
type CostRequest struct {
	ProjectID     string       `json:"projectId"`
	Category      CostCategory `json:"category" validate:"required,oneof=MATERIAL LABOR TRANSPORT THIRD_PARTY"`
	Description   string       `json:"description" validate:"required,max=200"`
	Value         float64      `json:"value" validate:"gte=0"`
	Date          string       `json:"date" validate:"required,datetime=2006-01-02"`
	Type          CostType     `json:"type" validate:"required,oneof=FIXED VARIABLE"`
	SupplierID    string       `json:"supplierId"`
	PaymentMethod string       `json:"paymentMethod"`
}

// ExpenseRequest is the payload for creating or updating a general expense
type ExpenseRequest struct {
	Description string          `json:"description" validate:"required_if=Category OTHER"`
	Category    ExpenseCategory `json:"category" validate:"required,oneof=RENT ENERGY MARKETING TOOLS TAXES OTHER"`
	Value       float64         `json:"value" validate:"gte=0"`
	DueDate     string          `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Status      PaymentStatus   `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
	SupplierID  string          `json:"supplierId"`
}

// CustomerRequest is the payload for creating or updating a customer
type CustomerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=500"`
}

// SupplierRequest is the payload for creating or updating a supplier
type SupplierRequest struct {
	Name     string           `json:"name" validate:"required,max=200"`
	Category SupplierCategory `json:"category" validate:"required,oneof=MDF HARDWARE TOOLS SERVICES OTHER"`
	Contact  string           `json:"contact" validate:"max=200"`
	Rating   int              `json:"rating" validate:"min=1,max=5"`
}

// BudgetItemRequest is one line of a budget payload
type BudgetItemRequest struct {
	Description string  `json:"description" validate:"required,max=200"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

// BudgetRequest is the payload for creating or updating a budget. A zero
// multiplier or a missing tax rate takes the configured default.
type BudgetRequest struct {
	CustomerID     string              `json:"customerId" validate:"required"`
	Title          string              `json:"title" validate:"max=200"`
	Date           string              `json:"date" validate:"required,datetime=2006-01-02"`
	Items          []BudgetItemRequest `json:"items" validate:"dive"`
	Multiplier     float64             `json:"multiplier" validate:"gte=0"`
	TaxRatePercent *float64            `json:"taxRatePercent" validate:"omitempty,gte=0,lt=100"`
}

// BudgetStatusRequest moves a budget to another status
type BudgetStatusRequest struct {
	Status BudgetStatus `json:"status" validate:"required,oneof=DRAFT SENT APPROVED REJECTED"`
}

// SimulatePriceRequest is the payload for the quick price simulator
type SimulatePriceRequest struct {
	Cost          float64 `json:"cost" validate:"gte=0"`
	MarkupPercent float64 `json:"markupPercent" validate:"gte=0"`
	TaxPercent    float64 `json:"taxPercent" validate:"gte=0"`
}

// BudgetPriceRequest is the payload for the multiplier-based price calculator
type BudgetPriceRequest struct {
	Cost       float64 `json:"cost" validate:"gte=0"`
	Multiplier float64 `json:"multiplier" validate:"gte=0"`
	TaxPercent float64 `json:"taxPercent" validate:"gte=0"`
}
