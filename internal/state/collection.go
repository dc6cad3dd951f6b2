package state

import (
	"context"
	"sync"

	"outlai/internal/core"
	"outlai/internal/log"
	"outlai/internal/services"
)

// ExpenseAPI is the slice of the expense service the collection needs.
type ExpenseAPI interface {
	List(ctx context.Context, page, limit int, category string) (services.ExpensePage, error)
	Create(ctx context.Context, payload core.CreateExpense) (core.Expense, error)
	Delete(ctx context.Context, id string) error
}

// Filters is the active listing filter set.
type Filters struct {
	Page     int
	Limit    int
	Category string
}

// Snapshot is a consistent read of the collection state.
type Snapshot struct {
	Expenses   []core.Expense
	Pagination core.Pagination
	Filters    Filters
	IsLoading  bool
}

// Collection owns the current page of expenses and its pagination
// metadata. It is the single source of truth the presentation layer
// reads from; every mutation re-fetches from the backend instead of
// patching local state, trading a round trip for guaranteed
// client/server consistency.
type Collection struct {
	mu     sync.Mutex
	api    ExpenseAPI
	logger *log.Logger

	expenses   []core.Expense
	pagination core.Pagination
	filters    Filters
	loading    bool
}

// NewCollection creates a collection with the given default filters.
func NewCollection(api ExpenseAPI, defaults Filters, logger *log.Logger) *Collection {
	if defaults.Page < 1 {
		defaults.Page = 1
	}
	if defaults.Limit < 1 {
		defaults.Limit = 10
	}
	if defaults.Category == "" {
		defaults.Category = services.CategoryAll
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentExpenses)
	}
	return &Collection{
		api:        api,
		logger:     logger,
		filters:    defaults,
		pagination: core.Pagination{Page: defaults.Page, Limit: defaults.Limit, TotalPages: 1},
	}
}

// Init runs the initial load with the default filters.
func (c *Collection) Init(ctx context.Context) error {
	c.mu.Lock()
	filters := c.filters
	c.mu.Unlock()
	return c.Load(ctx, filters.Page, filters.Limit, filters.Category)
}

// Load fetches a page and replaces expenses, pagination and active
// filters atomically. On failure the previous state stays intact
// (stale but consistent). The loading flag clears on every path.
func (c *Collection) Load(ctx context.Context, page, limit int, category string) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	result, err := c.api.List(ctx, page, limit, category)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to load expenses",
			log.FieldOperation, log.OpLoad,
			log.FieldPage, page,
			log.FieldLimit, limit,
			log.FieldCategory, category,
			log.FieldError, err.Error())
		return err
	}

	c.mu.Lock()
	c.expenses = result.Data
	c.pagination = result.Pagination
	c.filters = Filters{Page: page, Limit: limit, Category: category}
	c.mu.Unlock()
	return nil
}

// Add creates an expense, then reloads page 1 with the current limit
// and category: the fresh item sorts to the top of the first page, so
// that is where the user should land.
func (c *Collection) Add(ctx context.Context, payload core.CreateExpense) error {
	if _, err := c.api.Create(ctx, payload); err != nil {
		c.logger.ErrorContext(ctx, "Failed to add expense",
			log.FieldOperation, log.OpCreate,
			log.FieldError, err.Error())
		return err
	}

	c.mu.Lock()
	filters := c.filters
	c.mu.Unlock()
	return c.Load(ctx, 1, filters.Limit, filters.Category)
}

// Delete removes an expense, then reloads the current page so the
// removal shows in place.
func (c *Collection) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		c.logger.ErrorContext(ctx, "Failed to delete expense",
			log.FieldOperation, log.OpDelete,
			log.FieldExpenseID, id,
			log.FieldError, err.Error())
		return err
	}

	c.mu.Lock()
	filters := c.filters
	c.mu.Unlock()
	return c.Load(ctx, filters.Page, filters.Limit, filters.Category)
}

// Snapshot returns a consistent copy of the current state.
func (c *Collection) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	expenses := make([]core.Expense, len(c.expenses))
	copy(expenses, c.expenses)
	return Snapshot{
		Expenses:   expenses,
		Pagination: c.pagination,
		Filters:    c.filters,
		IsLoading:  c.loading,
	}
}
