package accounts_repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ledger/internal/domain"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	userQuery := `
		INSERT INTO users (id, name, email)
		VALUES ($1, $2, $3)
	`
	_, err = tx.ExecContext(ctx, userQuery,
		account.Owner.ID, account.Owner.Name, account.Owner.Email)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return domain.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create user %s: %w", account.Owner.ID, err)
	}

	accountQuery := `
		INSERT INTO accounts (id, user_id, balance, withdrawn, paid_in, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, accountQuery,
		account.ID, account.Owner.ID, account.Balance, account.Withdrawn, account.PaidIn,
		account.CreatedAt, account.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return domain.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create account for user %s: %w", account.Owner.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *accountRepository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT a.id, a.balance, a.withdrawn, a.paid_in, a.created_at, a.updated_at,
		       u.id, u.name, u.email
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`
	account := &domain.Account{Owner: &domain.User{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Balance,
		&account.Withdrawn,
		&account.PaidIn,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.Owner.ID,
		&account.Owner.Name,
		&account.Owner.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return account, nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1, withdrawn = $2, paid_in = $3, updated_at = $4
		WHERE id = $5
	`
	account.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		account.Balance, account.Withdrawn, account.PaidIn, account.UpdatedAt, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.ID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
