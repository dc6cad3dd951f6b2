package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"outlai/internal/api"
	"outlai/internal/core"
)

// CategoryAll is the sentinel filter meaning "no category filter". It
// is omitted from the query string rather than sent literally.
const CategoryAll = "all"

// ExpensePage is one page of expenses with its pagination metadata.
type ExpensePage struct {
	Data       []core.Expense  `json:"data"`
	Pagination core.Pagination `json:"pagination"`
}

// ExpenseService wraps the expense endpoints.
type ExpenseService struct {
	client *api.Client
}

func NewExpenseService(client *api.Client) *ExpenseService {
	return &ExpenseService{client: client}
}

// List fetches one page of expenses. Page and limit go to the backend
// as-is: out-of-range values are the backend's to reject or clamp, the
// client does not second-guess them.
func (s *ExpenseService) List(ctx context.Context, page, limit int, category string) (ExpensePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if category != "" && category != CategoryAll {
		params.Set("category", category)
	}

	var out ExpensePage
	err := s.client.Get(ctx, "/expenses/", api.RequestOptions{Params: params}, &out)
	return out, err
}

// Get fetches a single expense by ID.
func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	var out core.Expense
	err := s.client.Get(ctx, "/expenses/"+id, api.RequestOptions{}, &out)
	return out, err
}

// Create persists a new expense and returns it with its backend ID.
func (s *ExpenseService) Create(ctx context.Context, payload core.CreateExpense) (core.Expense, error) {
	var out core.Expense
	err := s.client.Post(ctx, "/expenses/", api.RequestOptions{Body: payload}, &out)
	return out, err
}

// Update applies a partial update to an existing expense.
func (s *ExpenseService) Update(ctx context.Context, id string, payload core.UpdateExpense) (core.Expense, error) {
	var out core.Expense
	err := s.client.Put(ctx, "/expenses/"+id, api.RequestOptions{Body: payload}, &out)
	return out, err
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/expenses/"+id, api.RequestOptions{}, nil)
}

// TotalsByPeriod fetches the backend-computed totals between two
// YYYY-MM-DD dates, keyed by MM/yyyy month.
func (s *ExpenseService) TotalsByPeriod(ctx context.Context, startDate, endDate string) (map[string]float64, error) {
	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)

	var out map[string]float64
	err := s.client.Get(ctx, "/expenses/totals/period", api.RequestOptions{Params: params}, &out)
	return out, err
}

// ExtractFromPhoto sends an encoded receipt photo for extraction. The
// response shape is not contractually fixed, so it comes back raw for
// the extract package to normalize.
func (s *ExpenseService) ExtractFromPhoto(ctx context.Context, uri string) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.client.Post(ctx, "/expenses/ai/extract-expenses-from-photo", api.RequestOptions{
		Body: map[string]string{"uri": uri},
	}, &out)
	return out, err
}
