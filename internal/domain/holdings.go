package domain

import "math"

// Holdings maps a symbol to the number of shares held. An entry is never
// zero or negative; it is deleted as soon as its quantity reaches zero.
type Holdings struct {
	shares map[string]int64
}

// NewHoldings creates empty Holdings.
func NewHoldings() *Holdings {
	return &Holdings{shares: make(map[string]int64)}
}

// Add increments the quantity held for symbol. Non-positive quantities
// are ignored. It returns false, leaving the entry untouched, when the
// new total would overflow an int64.
func (h *Holdings) Add(symbol string, quantity int64) bool {
	if quantity <= 0 {
		return false
	}
	if !h.CanAdd(symbol, quantity) {
		return false
	}
	h.shares[symbol] += quantity
	return true
}

// CanAdd reports whether quantity more shares of symbol fit in the count.
func (h *Holdings) CanAdd(symbol string, quantity int64) bool {
	return quantity <= math.MaxInt64-h.shares[symbol]
}

// Remove decrements the quantity held for symbol, deleting the entry when
// it reaches zero. It is a no-op when fewer than quantity shares are held;
// callers check with Has first.
func (h *Holdings) Remove(symbol string, quantity int64) {
	if quantity <= 0 {
		return
	}
	current, ok := h.shares[symbol]
	if !ok || current < quantity {
		return
	}
	if current == quantity {
		delete(h.shares, symbol)
		return
	}
	h.shares[symbol] = current - quantity
}

// Has reports whether at least quantity shares of symbol are held.
func (h *Holdings) Has(symbol string, quantity int64) bool {
	current, ok := h.shares[symbol]
	return ok && current >= quantity
}

// Quantity returns the shares held for symbol, or 0.
func (h *Holdings) Quantity(symbol string) int64 {
	return h.shares[symbol]
}

// Len returns the number of symbols held.
func (h *Holdings) Len() int {
	return len(h.shares)
}

// Snapshot returns a copy of the holdings.
func (h *Holdings) Snapshot() map[string]int64 {
	out := make(map[string]int64, len(h.shares))
	for symbol, qty := range h.shares {
		out[symbol] = qty
	}
	return out
}
