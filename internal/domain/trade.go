package domain

import (
	"time"

	"github.com/google/uuid"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is the receipt of an executed buy or sell at the catalog price.
type Trade struct {
	TradeID    string
	Side       Side
	Symbol     string
	Quantity   int64
	Price      Money
	Total      Money
	ExecutedAt time.Time
}

func newTrade(side Side, inst Instrument, quantity int64, total Money) *Trade {
	return &Trade{
		TradeID:    uuid.New().String(),
		Side:       side,
		Symbol:     inst.Symbol,
		Quantity:   quantity,
		Price:      inst.Price,
		Total:      total,
		ExecutedAt: time.Now(),
	}
}
