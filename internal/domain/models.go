package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Collection names the persisted entity collections. The values double as the
// snapshot keys written to the persistence layer.
type Collection string

const (
	CollectionProjects  Collection = "projects"
	CollectionCosts     Collection = "costs"
	CollectionRevenues  Collection = "revenues"
	CollectionExpenses  Collection = "expenses"
	CollectionCustomers Collection = "customers"
	CollectionSuppliers Collection = "suppliers"
	CollectionBudgets   Collection = "budgets"
)

// AllCollections lists every collection in persistence order
var AllCollections = []Collection{
	CollectionProjects,
	CollectionCosts,
	CollectionRevenues,
	CollectionExpenses,
	CollectionCustomers,
	CollectionSuppliers,
	CollectionBudgets,
}

// ProjectStatus represents the production state of a project
type ProjectStatus string

const (
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusFinished   ProjectStatus = "FINISHED"
	ProjectStatusDelayed    ProjectStatus = "DELAYED"
)

// Label returns the label shown to workshop staff
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectStatusInProgress:
		return "Em andamento"
	case ProjectStatusFinished:
		return "Finalizado"
	case ProjectStatusDelayed:
		return "Atrasado"
	}
	return string(s)
}

// PaymentStatus is shared by projects, revenues and general expenses
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// IsOpen reports whether the item has not been settled yet
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentStatusPending || s == PaymentStatusOverdue
}

// Label returns the label shown to workshop staff
func (s PaymentStatus) Label() string {
	switch s {
	case PaymentStatusPaid:
		return "Pago"
	case PaymentStatusPending:
		return "Pendente"
	case PaymentStatusOverdue:
		return "Atrasado"
	}
	return string(s)
}

// CostCategory classifies a cost record
type CostCategory string

const (
	CostCategoryMaterial   CostCategory = "MATERIAL"
	CostCategoryLabor      CostCategory = "LABOR"
	CostCategoryTransport  CostCategory = "TRANSPORT"
	CostCategoryThirdParty CostCategory = "THIRD_PARTY"
)

// Label returns the label shown to workshop staff
func (c CostCategory) Label() string {
	switch c {
	case CostCategoryMaterial:
		return "Material"
	case CostCategoryLabor:
		return "Mão de obra"
	case CostCategoryTransport:
		return "Transporte"
	case CostCategoryThirdParty:
		return "Terceiros"
	}
	return string(c)
}

// CostType distinguishes recurring from per-job costs
type CostType string

const (
	CostTypeFixed    CostType = "FIXED"
	CostTypeVariable CostType = "VARIABLE"
)

// ExpenseCategory is the closed set of general expense categories
type ExpenseCategory string

const (
	ExpenseCategoryRent      ExpenseCategory = "RENT"
	ExpenseCategoryEnergy    ExpenseCategory = "ENERGY"
	ExpenseCategoryMarketing ExpenseCategory = "MARKETING"
	ExpenseCategoryTools     ExpenseCategory = "TOOLS"
	ExpenseCategoryTaxes     ExpenseCategory = "TAXES"
	ExpenseCategoryOther     ExpenseCategory = "OTHER"
)

// Label returns the label shown to workshop staff
func (c ExpenseCategory) Label() string {
	switch c {
	case ExpenseCategoryRent:
		return "Aluguel"
	case ExpenseCategoryEnergy:
		return "Energia"
	case ExpenseCategoryMarketing:
		return "Marketing"
	case ExpenseCategoryTools:
		return "Ferramentas"
	case ExpenseCategoryTaxes:
		return "Impostos"
	case ExpenseCategoryOther:
		return "Outros"
	}
	return string(c)
}

// SupplierCategory classifies what a supplier provides
type SupplierCategory string

const (
	SupplierCategoryMDF      SupplierCategory = "MDF"
	SupplierCategoryHardware SupplierCategory = "HARDWARE"
	SupplierCategoryTools    SupplierCategory = "TOOLS"
	SupplierCategoryServices SupplierCategory = "SERVICES"
	SupplierCategoryOther    SupplierCategory = "OTHER"
)

// BudgetStatus tracks a price quote through its negotiation
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "DRAFT"
	BudgetStatusSent     BudgetStatus = "SENT"
	BudgetStatusApproved BudgetStatus = "APPROVED"
	BudgetStatusRejected BudgetStatus = "REJECTED"
)

// PaymentMethods lists the payment methods offered in entry forms
var PaymentMethods = []string{
	"PIX",
	"Cartão de Crédito",
	"Cartão de Débito",
	"Transferência",
	"Dinheiro",
	"Boleto",
}

// FurnitureTypes lists the furniture types offered in the project form
var FurnitureTypes = []string{
	"Cozinha",
	"Quarto",
	"Banheiro",
	"Sala",
	"Escritório",
	"Sob Medida",
	"Outro",
}

// Project is a client furniture job. RealCost is derived from the cost
// records that reference the project and is never edited directly.
type Project struct {
	ID            string        `json:"id" validate:"required"`
	Code          string        `json:"code" validate:"required"`
	ClientID      string        `json:"clientId"`
	ClientName    string        `json:"clientName"`
	FurnitureType string        `json:"type"`
	Description   string        `json:"description,omitempty"`
	StartDate     string        `json:"startDate" validate:"required,datetime=2006-01-02"`
	DeliveryDate  string        `json:"deliveryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValueSold     float64       `json:"valueSold" validate:"gte=0"`
	EstimatedCost float64       `json:"estimatedCost" validate:"gte=0"`
	RealCost      float64       `json:"realCost"`
	Status        ProjectStatus `json:"status" validate:"required,oneof=IN_PROGRESS FINISHED DELAYED"`
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"required,oneof=PENDING PAID OVERDUE"`
}

// Cost is a realized outflow, optionally attached to a project. An empty
// ProjectID marks a general workshop cost.
type Cost struct {
	ID            string       `json:"id" validate:"required"`
	ProjectID     string       `json:"projectId,omitempty"`
	Category      CostCategory `json:"category" validate:"required,oneof=MATERIAL LABOR TRANSPORT THIRD_PARTY"`
	Description   string       `json:"description" validate:"required"`
	Value         float64      `json:"value" validate:"gte=0"`
	Date          string       `json:"date" validate:"required,datetime=2006-01-02"`
	Type          CostType     `json:"type" validate:"required,oneof=FIXED VARIABLE"`
	SupplierID    string       `json:"supplierId,omitempty"`
	PaymentMethod string       `json:"paymentMethod,omitempty"`
}

// Revenue is an inflow, either linked to a project or standalone
type Revenue struct {
	ID            string        `json:"id" validate:"required"`
	ProjectID     string        `json:"projectId,omitempty"`
	Description   string        `json:"description,omitempty"`
	Category      string        `json:"category,omitempty"`
	Value         float64       `json:"value" validate:"gte=0"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Date          string        `json:"date" validate:"required,datetime=2006-01-02"`
	Status        PaymentStatus `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
}

// GeneralExpense is a workshop bill such as rent or energy
type GeneralExpense struct {
	ID          string          `json:"id" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Category    ExpenseCategory `json:"category" validate:"required,oneof=RENT ENERGY MARKETING TOOLS TAXES OTHER"`
	Value       float64         `json:"value" validate:"gte=0"`
	DueDate     string          `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Status      PaymentStatus   `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
	SupplierID  string          `json:"supplierId,omitempty"`
}

// Customer holds contact data plus two derived aggregates: TotalSpent and
// LastOrder.
type Customer struct {
	ID         string  `json:"id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string  `json:"phone,omitempty"`
	Address    string  `json:"address,omitempty"`
	TotalSpent float64 `json:"totalSpent"`
	LastOrder  string  `json:"lastOrder,omitempty"`
}

// Supplier is a vendor of materials or services
type Supplier struct {
	ID       string           `json:"id" validate:"required"`
	Name     string           `json:"name" validate:"required"`
	Category SupplierCategory `json:"category" validate:"required,oneof=MDF HARDWARE TOOLS SERVICES OTHER"`
	Contact  string           `json:"contact,omitempty"`
	Rating   int              `json:"rating" validate:"min=1,max=5"`
}

// BudgetItem is a single priced line in a budget
type BudgetItem struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	TotalPrice  float64 `json:"totalPrice"`
}

// Budget is a price quote for a customer. TotalCost and FinalPrice are
// derived from the items, the multiplier and the tax rate.
type Budget struct {
	ID             string       `json:"id" validate:"required"`
	CustomerID     string       `json:"customerId"`
	Title          string       `json:"title,omitempty"`
	Date           string       `json:"date" validate:"required,datetime=2006-01-02"`
	Items          []BudgetItem `json:"items" validate:"dive"`
	TotalCost      float64      `json:"totalCost"`
	Multiplier     float64      `json:"multiplier" validate:"gt=0"`
	TaxRatePercent float64      `json:"taxRatePercent" validate:"gte=0"`
	FinalPrice     float64      `json:"finalPrice"`
	Status         BudgetStatus `json:"status" validate:"required,oneof=DRAFT SENT APPROVED REJECTED"`
}

// SnapshotRecord is the persisted form of one collection: its name and the
// JSON encoding of every entity in it.
type SnapshotRecord struct {
	Collection string         `gorm:"type:varchar(32);primaryKey;column:collection"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null;column:payload"`
	Revision   int64          `gorm:"not null;default:0;column:revision"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

// TableName overrides the default pluralized table name
func (SnapshotRecord) TableName() string {
	return "entity_snapshots"
}
