package usecase

import (
	"context"

	"github.com/Aradhik11/fx-trading/internal/domain"
)

// TradeCurrencyUseCase is a conversion tagged with trade intent. Whether a
// trade should ever differ beyond the recorded type (a fee schedule, say) is
// a product question; until answered, no markup is applied.
type TradeCurrencyUseCase struct {
	convert *ConvertCurrencyUseCase
}

func NewTradeCurrency(convert *ConvertCurrencyUseCase) *TradeCurrencyUseCase {
	return &TradeCurrencyUseCase{convert: convert}
}

// Execute runs the conversion protocol with the trade type written on the
// ledger entry inside the same atomic transaction as the balance changes.
func (u *TradeCurrencyUseCase) Execute(ctx context.Context, input ConvertCurrencyInput) (*ConvertCurrencyOutput, error) {
	return u.convert.execute(ctx, input, domain.TypeTrade)
}
