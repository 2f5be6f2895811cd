package service

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/market"
	"github.com/efreitasn/papertrade/internal/store"
)

// HoldingView is a single position valued at the current catalog price.
type HoldingView struct {
	Symbol   string
	Quantity int64
	Price    domain.Money
	Value    domain.Money
}

// PortfolioView is the account's cash plus its positions, sorted by symbol.
type PortfolioView struct {
	Cash          domain.Money
	Holdings      []HoldingView
	HoldingsValue domain.Money
	Equity        domain.Money
}

// TradingService is the single trading session: one account, one catalog
// and the journal of what was traded. Every operation holds the session
// lock, so callers observe one operation at a time even when the HTTP
// surface receives requests concurrently.
type TradingService struct {
	mu      sync.Mutex
	account *domain.Account
	catalog *market.Catalog
	trades  *store.TradeStore
	rng     market.RandSource
	logger  *slog.Logger
}

// NewTradingService creates a new TradingService. A nil logger discards
// log output.
func NewTradingService(
	account *domain.Account,
	catalog *market.Catalog,
	trades *store.TradeStore,
	rng market.RandSource,
	logger *slog.Logger,
) *TradingService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TradingService{
		account: account,
		catalog: catalog,
		trades:  trades,
		rng:     rng,
		logger:  logger,
	}
}

// ViewMarket advances every price by one simulation step and returns the
// resulting catalog.
func (s *TradingService) ViewMarket() []domain.Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.SimulatePriceChanges(s.rng)
	s.logger.Debug("prices simulated", slog.Int("instruments", s.catalog.Len()))
	return s.catalog.ListAll()
}

// Market returns the catalog without moving prices.
func (s *TradingService) Market() []domain.Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.catalog.ListAll()
}

// Quote returns the current instrument for symbol.
func (s *TradingService) Quote(symbol string) (domain.Instrument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.catalog.Lookup(symbol)
	if err != nil {
		return domain.Instrument{}, fmt.Errorf("quote %q: %w", symbol, err)
	}
	return inst, nil
}

// Buy buys quantity shares of symbol at the current price. Unknown symbols
// return domain.ErrSymbolNotFound without touching the account.
func (s *TradingService) Buy(symbol string, quantity int64) (*domain.Trade, error) {
	return s.trade(domain.SideBuy, symbol, quantity)
}

// Sell sells quantity shares of symbol at the current price.
func (s *TradingService) Sell(symbol string, quantity int64) (*domain.Trade, error) {
	return s.trade(domain.SideSell, symbol, quantity)
}

func (s *TradingService) trade(side domain.Side, symbol string, quantity int64) (*domain.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.catalog.Lookup(symbol)
	if err != nil {
		s.logger.Debug("trade rejected",
			slog.String("side", string(side)),
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%s %q: %w", side, symbol, err)
	}

	var t *domain.Trade
	switch side {
	case domain.SideBuy:
		t, err = s.account.Buy(inst, quantity)
	case domain.SideSell:
		t, err = s.account.Sell(inst, quantity)
	default:
		return nil, &domain.ValidationError{Message: fmt.Sprintf("side must be buy or sell, got %q", side)}
	}
	if err != nil {
		s.logger.Debug("trade rejected",
			slog.String("side", string(side)),
			slog.String("symbol", inst.Symbol),
			slog.Int64("quantity", quantity),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%s %d %s: %w", side, quantity, inst.Symbol, err)
	}

	s.trades.Append(t)
	s.logger.Info("trade executed",
		slog.String("trade_id", t.TradeID),
		slog.String("side", string(t.Side)),
		slog.String("symbol", t.Symbol),
		slog.Int64("quantity", t.Quantity),
		slog.String("price", t.Price.String()),
		slog.String("total", t.Total.String()),
		slog.String("cash", s.account.Cash().String()),
	)
	return t, nil
}

// Deposit adds amount to the account's cash.
func (s *TradingService) Deposit(amount domain.Money) (domain.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.account.Deposit(amount); err != nil {
		return s.account.Cash(), err
	}
	s.logger.Info("cash deposited", slog.String("amount", amount.String()))
	return s.account.Cash(), nil
}

// Withdraw removes amount from the account's cash.
func (s *TradingService) Withdraw(amount domain.Money) (domain.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.account.Withdraw(amount); err != nil {
		s.logger.Debug("withdrawal rejected",
			slog.String("amount", amount.String()),
			slog.String("error", err.Error()),
		)
		return s.account.Cash(), fmt.Errorf("withdraw %s: %w", amount, err)
	}
	s.logger.Info("cash withdrawn", slog.String("amount", amount.String()))
	return s.account.Cash(), nil
}

// Cash returns the account's cash balance.
func (s *TradingService) Cash() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.account.Cash()
}

// Portfolio returns the account's holdings valued at current prices.
func (s *TradingService) Portfolio() PortfolioView {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.account.Portfolio()
	view := PortfolioView{
		Cash:          s.account.Cash(),
		Holdings:      make([]HoldingView, 0, len(snapshot)),
		HoldingsValue: domain.MoneyFromInt(0),
	}

	for symbol, qty := range snapshot {
		hv := HoldingView{Symbol: symbol, Quantity: qty}
		// Holdings only ever contain catalog symbols.
		if inst, err := s.catalog.Lookup(symbol); err == nil {
			hv.Price = inst.Price
			hv.Value = inst.Price.Mul(qty)
			view.HoldingsValue = view.HoldingsValue.Add(hv.Value)
		}
		view.Holdings = append(view.Holdings, hv)
	}
	sort.Slice(view.Holdings, func(i, j int) bool {
		return view.Holdings[i].Symbol < view.Holdings[j].Symbol
	})

	view.Equity = view.Cash.Add(view.HoldingsValue)
	return view
}

// Trades returns the session's executed trades in order.
func (s *TradingService) Trades() []*domain.Trade {
	return s.trades.List()
}
