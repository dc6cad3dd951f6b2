package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outlai/internal/api"
	"outlai/internal/apitest"
	"outlai/internal/core"
	"outlai/internal/services"
)

type fixture struct {
	backend  *apitest.Server
	auth     *services.AuthService
	expenses *services.ExpenseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := apitest.New()
	t.Cleanup(backend.Close)

	client, err := api.New(backend.URL(), 5*time.Second, nil)
	require.NoError(t, err)

	return &fixture{
		backend:  backend,
		auth:     services.NewAuthService(client),
		expenses: services.NewExpenseService(client),
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	_, err := f.auth.Login(context.Background(), services.LoginCredentials{
		Email:    "paulo@example.com",
		Password: "senha123",
	})
	require.NoError(t, err)
}

func TestAuthService_LoginAndMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.auth.Login(ctx, services.LoginCredentials{
		Email:    "paulo@example.com",
		Password: "senha123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "u1", result.User.ID)

	user, err := f.auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "paulo@example.com", user.Email)
}

func TestAuthService_LoginRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), services.LoginCredentials{
		Email:    "paulo@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
}

func TestAuthService_MeWithoutSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Me(context.Background())
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
}

func TestAuthService_Logout(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	require.NoError(t, f.auth.Logout(context.Background()))
	assert.False(t, f.backend.LoggedIn())
}

func TestAuthService_RegisterConflict(t *testing.T) {
	f := newFixture(t)

	err := f.auth.Register(context.Background(), services.RegisterCredentials{
		Name:     "Paulo",
		Email:    "paulo@example.com",
		Password: "senha123",
	})
	require.Error(t, err)
	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusConflict, reqErr.Status)
	assert.Equal(t, "email already taken", reqErr.Message())
}

func TestExpenseService_ListOmitsAllSentinel(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.Seed(
		core.Expense{Description: "Mercado", Amount: 120, Category: "Comida", Date: core.NewDate(2025, 3, 1)},
		core.Expense{Description: "Ônibus", Amount: 5, Category: "Transporte", Date: core.NewDate(2025, 3, 2)},
	)

	// "all" must not reach the backend as a literal category filter
	page, err := f.expenses.List(context.Background(), 1, 10, services.CategoryAll)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.Pagination.Total)

	filtered, err := f.expenses.List(context.Background(), 1, 10, "Comida")
	require.NoError(t, err)
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, "Mercado", filtered.Data[0].Description)
}

func TestExpenseService_ListPassesPageThrough(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	// page 0 goes to the backend untouched; the backend rejects it
	_, err := f.expenses.List(context.Background(), 0, 10, services.CategoryAll)
	assert.True(t, api.IsStatus(err, http.StatusBadRequest))

	// a page beyond totalPages comes back empty, not an error
	f.backend.Seed(core.Expense{Description: "Café", Amount: 8, Category: "Comida", Date: core.NewDate(2025, 3, 1)})
	page, err := f.expenses.List(context.Background(), 99, 10, services.CategoryAll)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 99, page.Pagination.Page)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestExpenseService_CreateGetUpdateDelete(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	created, err := f.expenses.Create(ctx, core.CreateExpense{
		Description: "Farmácia",
		Amount:      42.9,
		Category:    "Saúde",
		Date:        "2025-03-10",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)

	got, err := f.expenses.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Description, got.Description)

	newAmount := 50.0
	updated, err := f.expenses.Update(ctx, created.ID, core.UpdateExpense{Amount: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.Amount)
	assert.Equal(t, "Farmácia", updated.Description)

	require.NoError(t, f.expenses.Delete(ctx, created.ID))
	_, err = f.expenses.Get(ctx, created.ID)
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
}

func TestExpenseService_DeleteMissing(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	err := f.expenses.Delete(context.Background(), "nope")
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
}

func TestExpenseService_TotalsByPeriod(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.SetTotals(map[string]float64{
		"02/2025": 310.5,
		"03/2025": 120,
	})

	totals, err := f.expenses.TotalsByPeriod(context.Background(), "2024-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, 310.5, totals["02/2025"])
	assert.Equal(t, 120.0, totals["03/2025"])
}

func TestExpenseService_ExtractFromPhotoRaw(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.SetExtractResponse(`{"expenses":[{"amount":10,"description":"Pizza","category":"comida"}]}`)

	raw, err := f.expenses.ExtractFromPhoto(context.Background(), "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.JSONEq(t, `{"expenses":[{"amount":10,"description":"Pizza","category":"comida"}]}`, string(raw))
}
