package usecase

import (
	"context"
	"fmt"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

type GetWalletsUseCase struct {
	walletRepository gateway.WalletRepository
}

func NewGetWallets(walletRepo gateway.WalletRepository) *GetWalletsUseCase {
	return &GetWalletsUseCase{
		walletRepository: walletRepo,
	}
}

// Execute returns every wallet of the user. A plain read: no locks, no
// transaction.
func (u *GetWalletsUseCase) Execute(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	wallets, err := u.walletRepository.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}
