// Package holdings contains the pure accounting arithmetic of the valuation
// engine: the trade-history fold that produces current positions and cash,
// and the plug computation that reconciles a mark-to-market total into the
// ledger. Nothing here performs I/O; both the preview path and the committing
// path call the same functions so their arithmetic can never diverge.
package holdings

import (
	"fmt"
	"sort"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// dustEpsilon is the quantity below which a position is treated as fully
// closed and dropped from the projection, so thousands of fractional crypto
// sells don't leave dust positions behind.
var dustEpsilon = decimal.New(1, -8) // 1e-8

// Holding is one open position produced by the fold.
type Holding struct {
	Symbol    string
	AssetType domain.AssetType
	Quantity  decimal.Decimal
	TotalCost int64 // weighted-average cost basis, minor units
}

// AverageCost returns the weighted-average unit cost in minor units.
// Zero when the position holds no quantity.
func (h Holding) AverageCost() decimal.Decimal {
	if h.Quantity.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(h.TotalCost).Div(h.Quantity)
}

// Projection is the result of folding a trade history: the cash position and
// the open holdings, sorted by symbol for deterministic output.
type Projection struct {
	Cash     int64
	Holdings []Holding
}

// HoldingsCost returns the summed cost basis of all open holdings.
func (p Projection) HoldingsCost() int64 {
	var total int64
	for _, h := range p.Holdings {
		total += h.TotalCost
	}
	return total
}

// ValidateTrade rejects malformed trade data before it enters the fold.
// Bad input is never silently coerced to zero.
func ValidateTrade(t domain.Trade) error {
	switch t.TradeType {
	case domain.TradeBuy, domain.TradeSell:
		if t.Symbol == nil || *t.Symbol == "" {
			return fmt.Errorf("%w: %s trade %s has no symbol", apperrors.ErrValidation, t.TradeType, t.TradeID)
		}
		if t.Quantity == nil || !t.Quantity.IsPositive() {
			return fmt.Errorf("%w: %s trade %s requires a positive quantity", apperrors.ErrValidation, t.TradeType, t.TradeID)
		}
	case domain.TradeDeposit, domain.TradeWithdraw, domain.TradeDividend,
		domain.TradeInterest, domain.TradeFee, domain.TradeAdjustment:
		// pure cash movements
	default:
		return fmt.Errorf("%w: unknown trade type %q on trade %s", apperrors.ErrValidation, t.TradeType, t.TradeID)
	}
	if t.Fees != nil && *t.Fees < 0 {
		return fmt.Errorf("%w: trade %s has negative fees", apperrors.ErrValidation, t.TradeID)
	}
	return nil
}

type position struct {
	assetType domain.AssetType
	quantity  decimal.Decimal
	totalCost int64
}

// Project folds a trade history, in ascending occurrence order, into cash and
// holdings with weighted-average cost basis. It is a pure, deterministic
// function of its inputs.
//
// Sign conventions: BUY/SELL amounts are positive (cost and proceeds); all
// cash-only types already carry their sign on the amount, so a single
// `cash += amount` branch serves deposits and withdrawals alike. A SELL
// larger than the held quantity is applied as-is and leaves the quantity
// negative; this is a historical projector, not an order-entry system.
func Project(openingCash int64, trades []domain.Trade) (Projection, error) {
	cash := openingCash
	positions := make(map[string]*position)

	for _, t := range trades {
		if err := ValidateTrade(t); err != nil {
			return Projection{}, err
		}

		switch t.TradeType {
		case domain.TradeDeposit, domain.TradeWithdraw, domain.TradeDividend,
			domain.TradeInterest, domain.TradeFee, domain.TradeAdjustment:
			cash += t.Amount

		case domain.TradeBuy:
			cost := t.Amount + t.FeesOrZero()
			cash -= cost
			p := getPosition(positions, *t.Symbol, t.AssetType)
			p.quantity = p.quantity.Add(*t.Quantity)
			p.totalCost += cost

		case domain.TradeSell:
			cash += t.Amount - t.FeesOrZero()
			p := getPosition(positions, *t.Symbol, t.AssetType)
			p.totalCost -= costReduction(p, *t.Quantity)
			p.quantity = p.quantity.Sub(*t.Quantity)
		}
	}

	out := Projection{Cash: cash}
	for symbol, p := range positions {
		if p.quantity.Abs().LessThanOrEqual(dustEpsilon) {
			continue
		}
		out.Holdings = append(out.Holdings, Holding{
			Symbol:    symbol,
			AssetType: p.assetType,
			Quantity:  p.quantity,
			TotalCost: p.totalCost,
		})
	}
	sort.Slice(out.Holdings, func(i, j int) bool {
		return out.Holdings[i].Symbol < out.Holdings[j].Symbol
	})
	return out, nil
}

func getPosition(positions map[string]*position, symbol string, assetType domain.AssetType) *position {
	p, ok := positions[symbol]
	if !ok {
		p = &position{assetType: assetType}
		positions[symbol] = p
	}
	return p
}

// costReduction returns how much cost basis a SELL removes: the average cost
// before the sale times the quantity sold, capped at the full basis when the
// sale closes or oversells the position. Realized gain is proceeds minus this
// reduction; it is derivable, so the projector does not persist it.
func costReduction(p *position, quantitySold decimal.Decimal) int64 {
	if !p.quantity.IsPositive() {
		return 0
	}
	if quantitySold.GreaterThanOrEqual(p.quantity) {
		return p.totalCost
	}
	return decimal.NewFromInt(p.totalCost).
		Mul(quantitySold).
		Div(p.quantity).
		Round(0).
		IntPart()
}
