package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/util"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrAccountAlreadyExists = errors.New("account already exists")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrPayInLimitReached = errors.New("pay-in limit reached")
var ErrNegativeAmount = errors.New("amount must not be negative")
var ErrSameAccount = errors.New("source and destination accounts are the same")

var (
	// PayInLimit caps the cumulative amount an account may receive over its lifetime.
	PayInLimit = decimal.NewFromInt(4000)
	// LowFundsThreshold is the balance below which the owner is notified.
	LowFundsThreshold = decimal.NewFromInt(500)
	// PayInWarningWindow is how close PaidIn may get to PayInLimit before the
	// owner is notified.
	PayInWarningWindow = decimal.NewFromInt(500)
)

// Account is the monetary aggregate of a single owner. Balance never goes
// negative, PaidIn never exceeds PayInLimit, and Withdrawn is a running
// negative total of everything ever taken out.
type Account struct {
	ID        string
	Owner     *User
	Balance   decimal.Decimal
	Withdrawn decimal.Decimal
	PaidIn    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an empty account bound to its owner.
func NewAccount(owner *User) *Account {
	now := time.Now()
	return &Account{
		ID:        util.GenerateUUID(),
		Owner:     owner,
		Balance:   decimal.Zero,
		Withdrawn: decimal.Zero,
		PaidIn:    decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithState overwrites the monetary fields and returns the account. Used to
// build pre-populated fixtures; production code mutates only through Withdraw
// and Deposit.
func (a *Account) WithState(balance, withdrawn, paidIn decimal.Decimal) *Account {
	a.Balance = balance
	a.Withdrawn = withdrawn
	a.PaidIn = paidIn
	return a
}

// Withdraw takes amount out of the account and returns it for chaining.
// The balance is validated before any mutation; a zero amount is a legal no-op.
func (a *Account) Withdraw(amount decimal.Decimal) (*Account, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if a.Balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	a.Withdrawn = a.Withdrawn.Sub(amount)
	return a, nil
}

// Deposit adds amount to the account and returns it for chaining. The pay-in
// limit is validated against the cumulative PaidIn total before any mutation.
func (a *Account) Deposit(amount decimal.Decimal) (*Account, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if a.PaidIn.Add(amount).GreaterThan(PayInLimit) {
		return nil, ErrPayInLimitReached
	}
	a.Balance = a.Balance.Add(amount)
	a.PaidIn = a.PaidIn.Add(amount)
	return a, nil
}
