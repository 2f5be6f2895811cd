package store

import (
	"sync"

	"github.com/efreitasn/papertrade/internal/domain"
)

// TradeStore is the session's in-memory trade journal. Trades are
// append-only and kept in execution order, both globally and per symbol.
type TradeStore struct {
	mu       sync.RWMutex
	all      []*domain.Trade
	bySymbol map[string][]*domain.Trade
}

// NewTradeStore creates an empty TradeStore.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		bySymbol: make(map[string][]*domain.Trade),
	}
}

// Append records an executed trade.
func (s *TradeStore) Append(t *domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.all = append(s.all, t)
	s.bySymbol[t.Symbol] = append(s.bySymbol[t.Symbol], t)
}

// List returns every trade in execution order. Returns an empty slice
// when nothing has been traded.
func (s *TradeStore) List() []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyTrades(s.all)
}

// GetBySymbol returns all trades for a symbol in execution order.
// Returns an empty slice if no trades exist for the symbol.
func (s *TradeStore) GetBySymbol(symbol string) []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyTrades(s.bySymbol[symbol])
}

// Len returns the number of recorded trades.
func (s *TradeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.all)
}

// copyTrades returns a copy so callers cannot mutate the internal slice.
func copyTrades(trades []*domain.Trade) []*domain.Trade {
	result := make([]*domain.Trade, len(trades))
	copy(result, trades)
	return result
}
