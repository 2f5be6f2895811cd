package market

import "github.com/efreitasn/papertrade/internal/domain"

// DefaultInstruments is the catalog used when no catalog file is configured.
func DefaultInstruments() []domain.Instrument {
	return []domain.Instrument{
		{Symbol: "AAPL", Price: domain.MoneyFromInt(150)},
		{Symbol: "GOOGL", Price: domain.MoneyFromInt(2800)},
		{Symbol: "TSLA", Price: domain.MoneyFromInt(800)},
	}
}
