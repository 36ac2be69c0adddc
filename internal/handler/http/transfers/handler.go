package transfers_http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ledger/internal/app/transfers"
	"ledger/internal/domain"
)

type TransferHandler struct {
	service transfers.TransferService
	logger  *zap.Logger
}

func NewTransferHandler(s transfers.TransferService, l *zap.Logger) *TransferHandler {
	return &TransferHandler{service: s, logger: l}
}

type OpenAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Amount is a pointer so an absent field is distinguishable from an explicit
// zero: zero is a legal no-op, a missing amount is a client error.
type WithdrawRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	FromAccountID string           `json:"from_account_id"`
	ToAccountID   string           `json:"to_account_id"`
	Amount        *decimal.Decimal `json:"amount"`
}

type AccountResponse struct {
	ID        string          `json:"id"`
	OwnerName string          `json:"owner_name"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
	PaidIn    decimal.Decimal `json:"paid_in"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

func accountToResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		OwnerName: account.Owner.Name,
		Email:     account.Owner.Email,
		Balance:   account.Balance,
		Withdrawn: account.Withdrawn,
		PaidIn:    account.PaidIn,
		CreatedAt: account.CreatedAt.Format(http.TimeFormat),
		UpdatedAt: account.UpdatedAt.Format(http.TimeFormat),
	}
}

func (h *TransferHandler) OpenAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Некорректное тело запроса для OpenAccount", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" {
		http.Error(w, "Name and email are required", http.StatusBadRequest)
		return
	}

	account, err := h.service.OpenAccount(r.Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			h.logger.Warn("Попытка создать существующий счет", zap.String("email", req.Email))
			http.Error(w, "Account already exists for this email", http.StatusConflict)
			return
		}
		h.logger.Error("Не удалось открыть счет", zap.String("email", req.Email), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, accountToResponse(account))
}

func (h *TransferHandler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.logger.Warn("Счет не найден", zap.String("account_id", accountID))
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Не удалось получить счет", zap.String("account_id", accountID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, accountToResponse(account))
}

func (h *TransferHandler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	var req WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Некорректное тело запроса для Withdraw", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Amount == nil {
		http.Error(w, "Amount is required", http.StatusBadRequest)
		return
	}

	account, err := h.service.WithdrawMoney(r.Context(), accountID, *req.Amount)
	if err != nil {
		h.writeDomainError(w, err, accountID)
		return
	}

	h.writeJSON(w, http.StatusOK, accountToResponse(account))
}

func (h *TransferHandler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Некорректное тело запроса для Transfer", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.FromAccountID == "" || req.ToAccountID == "" {
		http.Error(w, "Source and destination account IDs are required", http.StatusBadRequest)
		return
	}
	if req.Amount == nil {
		http.Error(w, "Amount is required", http.StatusBadRequest)
		return
	}

	if err := h.service.TransferMoney(r.Context(), req.FromAccountID, req.ToAccountID, *req.Amount); err != nil {
		h.writeDomainError(w, err, req.FromAccountID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TransferHandler) writeDomainError(w http.ResponseWriter, err error, accountID string) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		h.logger.Warn("Счет не найден", zap.String("account_id", accountID))
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInsufficientFunds):
		h.logger.Warn("Недостаточно средств", zap.String("account_id", accountID))
		http.Error(w, "Insufficient funds", http.StatusConflict)
	case errors.Is(err, domain.ErrPayInLimitReached):
		h.logger.Warn("Достигнут лимит пополнения", zap.String("account_id", accountID))
		http.Error(w, "Pay-in limit reached", http.StatusConflict)
	case errors.Is(err, domain.ErrNegativeAmount):
		http.Error(w, "Amount must not be negative", http.StatusBadRequest)
	case errors.Is(err, domain.ErrSameAccount):
		http.Error(w, "Source and destination accounts must differ", http.StatusBadRequest)
	default:
		h.logger.Error("Не удалось выполнить операцию", zap.String("account_id", accountID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *TransferHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Не удалось отправить JSON-ответ", zap.Error(err))
	}
}
