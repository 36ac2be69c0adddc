package transfers

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ledger/internal/domain"
	"ledger/internal/notification"
	"ledger/internal/repository/accounts_repo"
)

type TransferService interface {
	OpenAccount(ctx context.Context, name, email string) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	WithdrawMoney(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error)
	TransferMoney(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error
}

type transferService struct {
	accountRepo accounts_repo.AccountRepository
	notifier    notification.Service
	logger      *zap.Logger
}

func NewTransferService(
	accountRepo accounts_repo.AccountRepository,
	notifier notification.Service,
	logger *zap.Logger,
) TransferService {
	return &transferService{
		accountRepo: accountRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *transferService) OpenAccount(ctx context.Context, name, email string) (*domain.Account, error) {
	account := domain.NewAccount(domain.NewUser(name, email))

	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			s.logger.Warn("Попытка создать существующий счет", zap.String("email", email))
			return nil, domain.ErrAccountAlreadyExists
		}
		return nil, fmt.Errorf("не удалось создать счет для пользователя %s: %w", email, err)
	}

	s.logger.Info("Счет успешно создан",
		zap.String("account_id", account.ID),
		zap.String("email", email))
	return account, nil
}

func (s *transferService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		s.logger.Warn("Не удалось получить счет", zap.String("account_id", accountID), zap.Error(err))
		return nil, fmt.Errorf("не удалось получить счет %s: %w", accountID, err)
	}
	return account, nil
}

func (s *transferService) WithdrawMoney(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		s.logger.Warn("Не удалось получить счет для снятия средств", zap.String("account_id", accountID), zap.Error(err))
		return nil, fmt.Errorf("не удалось получить счет %s: %w", accountID, err)
	}

	if _, err := account.Withdraw(amount); err != nil {
		s.logger.Warn("Снятие средств отклонено",
			zap.String("account_id", accountID),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("не удалось сохранить счет %s: %w", accountID, err)
	}

	s.logger.Info("Средства успешно сняты",
		zap.String("account_id", accountID),
		zap.String("amount", amount.String()),
		zap.String("balance", account.Balance.String()))

	s.notifyFundsLowIfNeeded(ctx, account)
	return account, nil
}

func (s *transferService) TransferMoney(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error {
	// Два чтения одной строки дали бы две независимые копии счета, и вторая
	// запись затерла бы первую.
	if fromAccountID == toAccountID {
		s.logger.Warn("Перевод отклонен: счета отправителя и получателя совпадают",
			zap.String("account_id", fromAccountID))
		return domain.ErrSameAccount
	}

	fromAccount, err := s.accountRepo.GetAccountByID(ctx, fromAccountID)
	if err != nil {
		s.logger.Warn("Не удалось получить счет отправителя", zap.String("account_id", fromAccountID), zap.Error(err))
		return fmt.Errorf("не удалось получить счет отправителя %s: %w", fromAccountID, err)
	}
	toAccount, err := s.accountRepo.GetAccountByID(ctx, toAccountID)
	if err != nil {
		s.logger.Warn("Не удалось получить счет получателя", zap.String("account_id", toAccountID), zap.Error(err))
		return fmt.Errorf("не удалось получить счет получателя %s: %w", toAccountID, err)
	}

	if _, err := fromAccount.Withdraw(amount); err != nil {
		s.logger.Warn("Перевод отклонен: снятие со счета отправителя не удалось",
			zap.String("from_account_id", fromAccountID),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return err
	}
	if _, err := toAccount.Deposit(amount); err != nil {
		s.logger.Warn("Перевод отклонен: зачисление на счет получателя не удалось",
			zap.String("to_account_id", toAccountID),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return err
	}

	if err := s.accountRepo.Update(ctx, fromAccount); err != nil {
		return fmt.Errorf("не удалось сохранить счет отправителя %s: %w", fromAccountID, err)
	}
	// Между двумя записями нет общей транзакции: сбой на этом шаге оставляет
	// списание сохраненным без зачисления.
	if err := s.accountRepo.Update(ctx, toAccount); err != nil {
		return fmt.Errorf("не удалось сохранить счет получателя %s: %w", toAccountID, err)
	}

	s.logger.Info("Перевод успешно выполнен",
		zap.String("from_account_id", fromAccountID),
		zap.String("to_account_id", toAccountID),
		zap.String("amount", amount.String()))

	s.notifyFundsLowIfNeeded(ctx, fromAccount)
	s.notifyApproachingPayInLimitIfNeeded(ctx, toAccount)
	return nil
}

// notifyFundsLowIfNeeded fires when the balance dropped strictly below the
// threshold. Delivery failures are logged and swallowed.
func (s *transferService) notifyFundsLowIfNeeded(ctx context.Context, account *domain.Account) {
	if !account.Balance.LessThan(domain.LowFundsThreshold) {
		return
	}
	if err := s.notifier.NotifyFundsLow(ctx, account.Owner.Email); err != nil {
		s.logger.Error("Не удалось отправить уведомление о низком балансе",
			zap.String("account_id", account.ID),
			zap.Error(err))
	}
}

// notifyApproachingPayInLimitIfNeeded fires when the remaining pay-in headroom
// is strictly below the warning window.
func (s *transferService) notifyApproachingPayInLimitIfNeeded(ctx context.Context, account *domain.Account) {
	if !domain.PayInLimit.Sub(account.PaidIn).LessThan(domain.PayInWarningWindow) {
		return
	}
	if err := s.notifier.NotifyApproachingPayInLimit(ctx, account.Owner.Email); err != nil {
		s.logger.Error("Не удалось отправить уведомление о приближении к лимиту пополнения",
			zap.String("account_id", account.ID),
			zap.Error(err))
	}
}
