package service

import (
	"errors"
	"testing"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/market"
	"github.com/efreitasn/papertrade/internal/store"
)

// fixedRand returns the same draw every time.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func newTestTradingService(t *testing.T, cash float64, draw float64) *TradingService {
	t.Helper()
	account, err := domain.NewAccount(domain.MoneyFromFloat(cash))
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	catalog, err := market.NewCatalog(market.DefaultInstruments())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return NewTradingService(account, catalog, store.NewTradeStore(), fixedRand(draw), nil)
}

func TestBuy_Success(t *testing.T) {
	svc := newTestTradingService(t, 5000, 0.5)

	trade, err := svc.Buy("aapl", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trade.Symbol != "AAPL" || trade.Quantity != 10 || trade.Side != domain.SideBuy {
		t.Errorf("got trade %+v, want buy 10 AAPL", trade)
	}
	if !svc.Cash().Equal(domain.MoneyFromInt(3500)) {
		t.Errorf("got cash %s, want 3500", svc.Cash())
	}
	if got := svc.Trades(); len(got) != 1 || got[0].TradeID != trade.TradeID {
		t.Errorf("journal = %v, want the single buy", got)
	}
}

func TestBuy_SymbolNotFound(t *testing.T) {
	svc := newTestTradingService(t, 5000, 0.5)

	_, err := svc.Buy("MSFT", 1)
	if !errors.Is(err, domain.ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
	if !svc.Cash().Equal(domain.MoneyFromInt(5000)) {
		t.Errorf("got cash %s, want 5000", svc.Cash())
	}
	if len(svc.Trades()) != 0 {
		t.Error("rejected trade should not be journaled")
	}
}

func TestBuy_InsufficientFunds(t *testing.T) {
	svc := newTestTradingService(t, 1000, 0.5)

	_, err := svc.Buy("GOOGL", 1)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(svc.Portfolio().Holdings) != 0 {
		t.Error("rejected buy should not add holdings")
	}
}

func TestSell_InsufficientShares(t *testing.T) {
	svc := newTestTradingService(t, 5000, 0.5)
	if _, err := svc.Buy("AAPL", 10); err != nil {
		t.Fatalf("Buy: %v", err)
	}

	_, err := svc.Sell("AAPL", 15)
	if !errors.Is(err, domain.ErrInsufficientShares) {
		t.Fatalf("expected ErrInsufficientShares, got %v", err)
	}
	if !svc.Cash().Equal(domain.MoneyFromInt(3500)) {
		t.Errorf("got cash %s, want 3500", svc.Cash())
	}
	if len(svc.Trades()) != 1 {
		t.Errorf("journal has %d trades, want 1", len(svc.Trades()))
	}
}

func TestSell_AfterPriceMove(t *testing.T) {
	svc := newTestTradingService(t, 5000, 1)
	if _, err := svc.Buy("AAPL", 10); err != nil {
		t.Fatalf("Buy: %v", err)
	}

	svc.ViewMarket() // +5%: AAPL 157.50

	trade, err := svc.Sell("AAPL", 10)
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}
	if !trade.Price.Equal(domain.MoneyFromFloat(157.5)) {
		t.Errorf("got sell price %s, want 157.50", trade.Price)
	}
	if !svc.Cash().Equal(domain.MoneyFromInt(5075)) {
		t.Errorf("got cash %s, want 5075", svc.Cash())
	}
}

func TestViewMarket_SimulatesThenLists(t *testing.T) {
	svc := newTestTradingService(t, 5000, 0)

	got := svc.ViewMarket()
	if len(got) != 3 {
		t.Fatalf("got %d instruments, want 3", len(got))
	}
	if got[0].Symbol != "AAPL" || !got[0].Price.Equal(domain.MoneyFromFloat(142.5)) {
		t.Errorf("got %s at %s, want AAPL at 142.50", got[0].Symbol, got[0].Price)
	}

	// Market lists without moving prices.
	again := svc.Market()
	if !again[0].Price.Equal(got[0].Price) {
		t.Errorf("Market moved prices: %s -> %s", got[0].Price, again[0].Price)
	}
}

func TestQuote(t *testing.T) {
	svc := newTestTradingService(t, 5000, 0.5)

	inst, err := svc.Quote("tsla")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inst.Price.Equal(domain.MoneyFromInt(800)) {
		t.Errorf("got %s, want 800", inst.Price)
	}

	if _, err := svc.Quote("NOPE"); !errors.Is(err, domain.ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestDepositWithdraw(t *testing.T) {
	svc := newTestTradingService(t, 100, 0.5)

	cash, err := svc.Deposit(domain.MoneyFromFloat(25.5))
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if !cash.Equal(domain.MoneyFromFloat(125.5)) {
		t.Errorf("got cash %s, want 125.50", cash)
	}

	cash, err = svc.Withdraw(domain.MoneyFromInt(200))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if !cash.Equal(domain.MoneyFromFloat(125.5)) {
		t.Errorf("got cash %s after failed withdraw, want 125.50", cash)
	}

	cash, err = svc.Withdraw(domain.MoneyFromFloat(125.5))
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if !cash.IsZero() {
		t.Errorf("got cash %s, want 0", cash)
	}
}

func TestPortfolio_Valuation(t *testing.T) {
	svc := newTestTradingService(t, 10000, 0.5)
	if _, err := svc.Buy("TSLA", 2); err != nil {
		t.Fatalf("Buy TSLA: %v", err)
	}
	if _, err := svc.Buy("AAPL", 10); err != nil {
		t.Fatalf("Buy AAPL: %v", err)
	}

	view := svc.Portfolio()
	if len(view.Holdings) != 2 {
		t.Fatalf("got %d holdings, want 2", len(view.Holdings))
	}
	if view.Holdings[0].Symbol != "AAPL" || view.Holdings[1].Symbol != "TSLA" {
		t.Errorf("holdings not sorted: %s, %s", view.Holdings[0].Symbol, view.Holdings[1].Symbol)
	}
	if !view.Holdings[0].Value.Equal(domain.MoneyFromInt(1500)) {
		t.Errorf("got AAPL value %s, want 1500", view.Holdings[0].Value)
	}
	if !view.Cash.Equal(domain.MoneyFromInt(6900)) {
		t.Errorf("got cash %s, want 6900", view.Cash)
	}
	if !view.HoldingsValue.Equal(domain.MoneyFromInt(3100)) {
		t.Errorf("got holdings value %s, want 3100", view.HoldingsValue)
	}
	if !view.Equity.Equal(domain.MoneyFromInt(10000)) {
		t.Errorf("got equity %s, want 10000", view.Equity)
	}
}

func TestPortfolio_Empty(t *testing.T) {
	svc := newTestTradingService(t, 5000, 0.5)

	view := svc.Portfolio()
	if view.Holdings == nil || len(view.Holdings) != 0 {
		t.Errorf("got holdings %v, want non-nil empty", view.Holdings)
	}
	if !view.Equity.Equal(domain.MoneyFromInt(5000)) {
		t.Errorf("got equity %s, want 5000", view.Equity)
	}
}
