package domain

// Instrument is a tradable stock and its current price.
type Instrument struct {
	Symbol string
	Price  Money
}
