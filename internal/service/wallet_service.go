package service

import (
	"context"
	"log/slog"
	"strings"

	"campusfeed/internal/middleware"
	"campusfeed/internal/models"
	"campusfeed/internal/observability"
	"campusfeed/internal/repository"
)

const (
	walletHistoryLimit = 20
	maxReasonLength    = 64
)

// WalletService exposes the Auracoin ledger. Balances only change through
// the repository's conditional updates, never by client-supplied totals.
type WalletService struct {
	walletRepo repository.WalletRepository
}

// WalletView is a balance with its most recent ledger entries.
type WalletView struct {
	*models.Wallet
	Entries []models.WalletEntry `json:"entries"`
}

type SpendInput struct {
	UserID uint
	Amount int64
	Reason string
}

func NewWalletService(walletRepo repository.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

func (s *WalletService) GetWallet(ctx context.Context, userID uint) (*WalletView, error) {
	wallet, err := s.walletRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.walletRepo.Entries(ctx, userID, walletHistoryLimit)
	if err != nil {
		return nil, err
	}
	return &WalletView{Wallet: wallet, Entries: entries}, nil
}

// Spend debits the wallet. It fails with INSUFFICIENT_FUNDS rather than
// letting the balance go negative.
func (s *WalletService) Spend(ctx context.Context, in SpendInput) (*models.Wallet, error) {
	reason := strings.TrimSpace(in.Reason)
	if in.Amount <= 0 {
		return nil, models.NewValidationError("Amount must be positive")
	}
	if reason == "" || len(reason) > maxReasonLength {
		return nil, models.NewValidationError("Reason must be 1-64 characters")
	}
	if reason == repository.ReasonSignupBonus {
		return nil, models.NewValidationError("Reason is reserved")
	}

	wallet, err := s.walletRepo.Debit(ctx, in.UserID, in.Amount, reason)
	if err != nil {
		outcome := "error"
		if models.ErrorCode(err) == models.CodeInsufficientFunds {
			outcome = "insufficient"
		}
		observability.WalletTransactions.WithLabelValues("debit", outcome).Inc()
		return nil, err
	}
	observability.WalletTransactions.WithLabelValues("debit", "ok").Inc()
	middleware.Logger.InfoContext(ctx, "wallet debited",
		slog.Uint64("user_id", uint64(in.UserID)),
		slog.Int64("amount", in.Amount),
		slog.String("reason", reason),
		slog.Int64("balance", wallet.Balance),
	)
	return wallet, nil
}

// Grant credits the wallet. Used by server-side jobs such as seeding.
func (s *WalletService) Grant(ctx context.Context, userID uint, amount int64, reason string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, models.NewValidationError("Amount must be positive")
	}
	wallet, err := s.walletRepo.Credit(ctx, userID, amount, reason)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.WalletTransactions.WithLabelValues("credit", outcome).Inc()
	return wallet, err
}
