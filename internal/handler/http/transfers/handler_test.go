package transfers_http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ledger/internal/domain"
)

// ---- mock implementations ----

type mockTransferService struct {
	openFn     func(ctx context.Context, name, email string) (*domain.Account, error)
	getFn      func(ctx context.Context, accountID string) (*domain.Account, error)
	withdrawFn func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error)
	transferFn func(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error
}

func (m *mockTransferService) OpenAccount(ctx context.Context, name, email string) (*domain.Account, error) {
	if m.openFn != nil {
		return m.openFn(ctx, name, email)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransferService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.getFn != nil {
		return m.getFn(ctx, accountID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransferService) WithdrawMoney(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	if m.withdrawFn != nil {
		return m.withdrawFn(ctx, accountID, amount)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransferService) TransferMoney(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error {
	if m.transferFn != nil {
		return m.transferFn(ctx, fromAccountID, toAccountID, amount)
	}
	return fmt.Errorf("not configured")
}

// ---- helpers ----

func newTestRouter(svc *mockTransferService) *chi.Mux {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, zap.NewNop())
	return r
}

func sampleAccount(email, balance string) *domain.Account {
	owner := domain.NewUser("Test Owner", email)
	return domain.NewAccount(owner).WithState(
		decimal.RequireFromString(balance), decimal.Zero, decimal.Zero)
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// ---- tests ----

func TestOpenAccountHandler(t *testing.T) {
	svc := &mockTransferService{
		openFn: func(ctx context.Context, name, email string) (*domain.Account, error) {
			return sampleAccount(email, "0"), nil
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/accounts",
		`{"name":"Ivan","email":"ivan@example.com"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d want=201, body=%s", rec.Code, rec.Body.String())
	}
	var resp AccountResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Email != "ivan@example.com" || !resp.Balance.IsZero() {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestOpenAccountHandlerMissingEmail(t *testing.T) {
	rec := doRequest(t, newTestRouter(&mockTransferService{}), http.MethodPost, "/accounts",
		`{"name":"Ivan"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}

func TestOpenAccountHandlerConflict(t *testing.T) {
	svc := &mockTransferService{
		openFn: func(ctx context.Context, name, email string) (*domain.Account, error) {
			return nil, domain.ErrAccountAlreadyExists
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/accounts",
		`{"name":"Ivan","email":"ivan@example.com"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status=%d want=409", rec.Code)
	}
}

func TestGetAccountHandlerNotFound(t *testing.T) {
	svc := &mockTransferService{
		getFn: func(ctx context.Context, accountID string) (*domain.Account, error) {
			return nil, fmt.Errorf("не удалось получить счет %s: %w", accountID, domain.ErrAccountNotFound)
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/accounts/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=404", rec.Code)
	}
}

func TestWithdrawHandler(t *testing.T) {
	var gotAmount decimal.Decimal
	svc := &mockTransferService{
		withdrawFn: func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
			gotAmount = amount
			return sampleAccount("ivan@example.com", "400"), nil
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/accounts/acc-1/withdrawals",
		`{"amount":600}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=200, body=%s", rec.Code, rec.Body.String())
	}
	if !gotAmount.Equal(decimal.RequireFromString("600")) {
		t.Fatalf("amount=%s want=600", gotAmount)
	}
	var resp AccountResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("balance=%s want=400", resp.Balance)
	}
}

func TestWithdrawHandlerInsufficientFunds(t *testing.T) {
	svc := &mockTransferService{
		withdrawFn: func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
			return nil, domain.ErrInsufficientFunds
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/accounts/acc-1/withdrawals",
		`{"amount":9999}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status=%d want=409", rec.Code)
	}
}

func TestWithdrawHandlerNegativeAmount(t *testing.T) {
	svc := &mockTransferService{
		withdrawFn: func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
			return nil, domain.ErrNegativeAmount
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/accounts/acc-1/withdrawals",
		`{"amount":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}

func TestTransferHandler(t *testing.T) {
	var gotFrom, gotTo string
	svc := &mockTransferService{
		transferFn: func(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error {
			gotFrom, gotTo = fromAccountID, toAccountID
			return nil
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/transfers",
		`{"from_account_id":"acc-1","to_account_id":"acc-2","amount":"150.50"}`)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status=%d want=204, body=%s", rec.Code, rec.Body.String())
	}
	if gotFrom != "acc-1" || gotTo != "acc-2" {
		t.Fatalf("from=%q to=%q", gotFrom, gotTo)
	}
}

func TestTransferHandlerPayInLimitReached(t *testing.T) {
	svc := &mockTransferService{
		transferFn: func(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error {
			return domain.ErrPayInLimitReached
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/transfers",
		`{"from_account_id":"acc-1","to_account_id":"acc-2","amount":500}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status=%d want=409", rec.Code)
	}
}

func TestTransferHandlerSameAccount(t *testing.T) {
	svc := &mockTransferService{
		transferFn: func(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error {
			return domain.ErrSameAccount
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/transfers",
		`{"from_account_id":"acc-1","to_account_id":"acc-1","amount":100}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}

func TestWithdrawHandlerMissingAmount(t *testing.T) {
	// the service must not be reached; the unconfigured mock would answer 500
	rec := doRequest(t, newTestRouter(&mockTransferService{}), http.MethodPost,
		"/accounts/acc-1/withdrawals", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}

func TestWithdrawHandlerExplicitZeroAmount(t *testing.T) {
	var gotAmount decimal.Decimal
	svc := &mockTransferService{
		withdrawFn: func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
			gotAmount = amount
			return sampleAccount("ivan@example.com", "100"), nil
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/accounts/acc-1/withdrawals",
		`{"amount":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("explicit zero is a legal no-op, status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !gotAmount.IsZero() {
		t.Fatalf("amount=%s want=0", gotAmount)
	}
}

func TestTransferHandlerMissingAmount(t *testing.T) {
	rec := doRequest(t, newTestRouter(&mockTransferService{}), http.MethodPost, "/transfers",
		`{"from_account_id":"acc-1","to_account_id":"acc-2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}

func TestTransferHandlerMissingAccountIDs(t *testing.T) {
	rec := doRequest(t, newTestRouter(&mockTransferService{}), http.MethodPost, "/transfers",
		`{"amount":100}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}

func TestTransferHandlerInvalidBody(t *testing.T) {
	rec := doRequest(t, newTestRouter(&mockTransferService{}), http.MethodPost, "/transfers",
		`{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	rec := doRequest(t, newTestRouter(&mockTransferService{}), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=200", rec.Code)
	}
}
