package store

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/woodfy/workshop-api/internal/domain"
)

var validate = validator.New()

// Removed lists the dependents dropped together with a project
type Removed struct {
	Costs    []string
	Revenues []string
}

// Tx is a pending mutation. It works on a private copy of the snapshot and
// records which collections it touched so the pipeline only reruns the
// stages that depend on them.
type Tx struct {
	state   Snapshot
	touched map[domain.Collection]bool
}

func newTx(state Snapshot) *Tx {
	return &Tx{state: state, touched: make(map[domain.Collection]bool)}
}

// View returns the working state. Callers must not modify the slices.
func (tx *Tx) View() Snapshot {
	return tx.state
}

func (tx *Tx) touch(c domain.Collection) {
	tx.touched[c] = true
}

func (tx *Tx) touchedCollections() []domain.Collection {
	var out []domain.Collection
	for _, c := range domain.AllCollections {
		if tx.touched[c] {
			out = append(out, c)
		}
	}
	return out
}

func checkEntity(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return nil
}

func (tx *Tx) requireProject(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := find(tx.state.Projects, id, projectID); !ok {
		return fmt.Errorf("%w: project %s", ErrInvalidReference, id)
	}
	return nil
}

func (tx *Tx) requireCustomer(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := find(tx.state.Customers, id, customerID); !ok {
		return fmt.Errorf("%w: customer %s", ErrInvalidReference, id)
	}
	return nil
}

func (tx *Tx) requireSupplier(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := find(tx.state.Suppliers, id, supplierID); !ok {
		return fmt.Errorf("%w: supplier %s", ErrInvalidReference, id)
	}
	return nil
}

// checkReference runs require on insert or when the reference changed. A
// stored record keeps a reference that went stale when its target was
// deleted; the integrity report lists it.
func checkReference(stored bool, old, next string, require func(string) error) error {
	if stored && old == next {
		return nil
	}
	return require(next)
}

// UpsertProject inserts p or replaces the project with the same id
func (tx *Tx) UpsertProject(p domain.Project) error {
	if err := checkEntity(p); err != nil {
		return err
	}
	prev, stored := find(tx.state.Projects, p.ID, projectID)
	if err := checkReference(stored, prev.ClientID, p.ClientID, tx.requireCustomer); err != nil {
		return err
	}
	tx.state.Projects = upsert(tx.state.Projects, p, projectID)
	tx.touch(domain.CollectionProjects)
	return nil
}

// UpsertCost inserts c or replaces the cost with the same id
func (tx *Tx) UpsertCost(c domain.Cost) error {
	if err := checkEntity(c); err != nil {
		return err
	}
	prev, stored := find(tx.state.Costs, c.ID, costID)
	if err := checkReference(stored, prev.ProjectID, c.ProjectID, tx.requireProject); err != nil {
		return err
	}
	if err := checkReference(stored, prev.SupplierID, c.SupplierID, tx.requireSupplier); err != nil {
		return err
	}
	tx.state.Costs = upsert(tx.state.Costs, c, costID)
	tx.touch(domain.CollectionCosts)
	return nil
}

// UpsertRevenue inserts r or replaces the revenue with the same id
func (tx *Tx) UpsertRevenue(r domain.Revenue) error {
	if err := checkEntity(r); err != nil {
		return err
	}
	prev, stored := find(tx.state.Revenues, r.ID, revenueID)
	if err := checkReference(stored, prev.ProjectID, r.ProjectID, tx.requireProject); err != nil {
		return err
	}
	tx.state.Revenues = upsert(tx.state.Revenues, r, revenueID)
	tx.touch(domain.CollectionRevenues)
	return nil
}

// UpsertExpense inserts e or replaces the general expense with the same id
func (tx *Tx) UpsertExpense(e domain.GeneralExpense) error {
	if err := checkEntity(e); err != nil {
		return err
	}
	prev, stored := find(tx.state.Expenses, e.ID, expenseID)
	if err := checkReference(stored, prev.SupplierID, e.SupplierID, tx.requireSupplier); err != nil {
		return err
	}
	tx.state.Expenses = upsert(tx.state.Expenses, e, expenseID)
	tx.touch(domain.CollectionExpenses)
	return nil
}

// UpsertCustomer inserts c or replaces the customer with the same id
func (tx *Tx) UpsertCustomer(c domain.Customer) error {
	if err := checkEntity(c); err != nil {
		return err
	}
	tx.state.Customers = upsert(tx.state.Customers, c, customerID)
	tx.touch(domain.CollectionCustomers)
	return nil
}

// UpsertSupplier inserts s or replaces the supplier with the same id
func (tx *Tx) UpsertSupplier(s domain.Supplier) error {
	if err := checkEntity(s); err != nil {
		return err
	}
	tx.state.Suppliers = upsert(tx.state.Suppliers, s, supplierID)
	tx.touch(domain.CollectionSuppliers)
	return nil
}

// UpsertBudget inserts b or replaces the budget with the same id
func (tx *Tx) UpsertBudget(b domain.Budget) error {
	if err := checkEntity(b); err != nil {
		return err
	}
	prev, stored := find(tx.state.Budgets, b.ID, budgetID)
	if err := checkReference(stored, prev.CustomerID, b.CustomerID, tx.requireCustomer); err != nil {
		return err
	}
	b.Items = cloneSlice(b.Items)
	tx.state.Budgets = upsert(tx.state.Budgets, b, budgetID)
	tx.touch(domain.CollectionBudgets)
	return nil
}

// RemoveProject deletes a project together with every cost and revenue
// that references it.
func (tx *Tx) RemoveProject(id string) (Removed, error) {
	projects, ok := remove(tx.state.Projects, id, projectID)
	if !ok {
		return Removed{}, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	tx.state.Projects = projects
	tx.touch(domain.CollectionProjects)

	var removed Removed
	costs := tx.state.Costs[:0:0]
	for _, c := range tx.state.Costs {
		if c.ProjectID == id {
			removed.Costs = append(removed.Costs, c.ID)
			continue
		}
		costs = append(costs, c)
	}
	if len(removed.Costs) > 0 {
		tx.state.Costs = costs
		tx.touch(domain.CollectionCosts)
	}

	revenues := tx.state.Revenues[:0:0]
	for _, r := range tx.state.Revenues {
		if r.ProjectID == id {
			removed.Revenues = append(removed.Revenues, r.ID)
			continue
		}
		revenues = append(revenues, r)
	}
	if len(removed.Revenues) > 0 {
		tx.state.Revenues = revenues
		tx.touch(domain.CollectionRevenues)
	}

	return removed, nil
}

// Remove deletes one entity by collection and id. Projects cascade as in
// RemoveProject.
func (tx *Tx) Remove(c domain.Collection, id string) error {
	var ok bool
	switch c {
	case domain.CollectionProjects:
		_, err := tx.RemoveProject(id)
		return err
	case domain.CollectionCosts:
		tx.state.Costs, ok = remove(tx.state.Costs, id, costID)
	case domain.CollectionRevenues:
		tx.state.Revenues, ok = remove(tx.state.Revenues, id, revenueID)
	case domain.CollectionExpenses:
		tx.state.Expenses, ok = remove(tx.state.Expenses, id, expenseID)
	case domain.CollectionCustomers:
		tx.state.Customers, ok = remove(tx.state.Customers, id, customerID)
	case domain.CollectionSuppliers:
		tx.state.Suppliers, ok = remove(tx.state.Suppliers, id, supplierID)
	case domain.CollectionBudgets:
		tx.state.Budgets, ok = remove(tx.state.Budgets, id, budgetID)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, c, id)
	}
	tx.touch(c)
	return nil
}

// FindProject looks a project up in the working state
func (tx *Tx) FindProject(id string) (domain.Project, bool) {
	return find(tx.state.Projects, id, projectID)
}

// FindCost looks a cost up in the working state
func (tx *Tx) FindCost(id string) (domain.Cost, bool) {
	return find(tx.state.Costs, id, costID)
}

// FindRevenue looks a revenue up in the working state
func (tx *Tx) FindRevenue(id string) (domain.Revenue, bool) {
	return find(tx.state.Revenues, id, revenueID)
}

// FindExpense looks a general expense up in the working state
func (tx *Tx) FindExpense(id string) (domain.GeneralExpense, bool) {
	return find(tx.state.Expenses, id, expenseID)
}

// FindCustomer looks a customer up in the working state
func (tx *Tx) FindCustomer(id string) (domain.Customer, bool) {
	return find(tx.state.Customers, id, customerID)
}

// FindSupplier looks a supplier up in the working state
func (tx *Tx) FindSupplier(id string) (domain.Supplier, bool) {
	return find(tx.state.Suppliers, id, supplierID)
}

// FindBudget looks a budget up in the working state
func (tx *Tx) FindBudget(id string) (domain.Budget, bool) {
	b, ok := find(tx.state.Budgets, id, budgetID)
	if ok {
		b.Items = cloneSlice(b.Items)
	}
	return b, ok
}

func projectID(p domain.Project) string { return p.ID }
func costID(c domain.Cost) string { return c.ID }
func revenueID(r domain.Revenue) string { return r.ID }
func expenseID(e domain.GeneralExpense) string { return e.ID }
func customerID(c domain.Customer) string { return c.ID }
func supplierID(s domain.Supplier) string { return s.ID }
func budgetID(b domain.Budget) string { return b.ID }

func find[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, it := range items {
		if key(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// upsert keeps the position of a replaced entity so collection order stays
// stable across edits.
func upsert[T any](items []T, v T, key func(T) string) []T {
	id := key(v)
	for i := range items {
		if key(items[i]) == id {
			items[i] = v
			return items
		}
	}
	return append(items, v)
}

func remove[T any](items []T, id string, key func(T) string) ([]T, bool) {
	for i := range items {
		if key(items[i]) == id {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}
