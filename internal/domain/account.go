package domain

import (
	"fmt"
	"math"
)

// Account is the trader's cash balance plus the holdings it exclusively
// owns. Cash never goes negative: every debit is checked before it is
// applied and a failed operation changes nothing.
type Account struct {
	cash     Money
	holdings *Holdings
}

// NewAccount creates an account with the given starting balance and no
// holdings.
func NewAccount(start Money) (*Account, error) {
	if start.IsNegative() {
		return nil, &ValidationError{Message: "starting balance must be >= 0"}
	}
	return &Account{
		cash:     start,
		holdings: NewHoldings(),
	}, nil
}

// Cash returns the current cash balance.
func (a *Account) Cash() Money {
	return a.cash
}

// Quantity returns the number of shares held for symbol.
func (a *Account) Quantity(symbol string) int64 {
	return a.holdings.Quantity(symbol)
}

// Portfolio returns a copy of the holdings.
func (a *Account) Portfolio() map[string]int64 {
	return a.holdings.Snapshot()
}

// Deposit adds amount to the cash balance.
func (a *Account) Deposit(amount Money) error {
	if amount.IsNegative() {
		return &ValidationError{Message: "amount must be >= 0"}
	}
	a.cash = a.cash.Add(amount)
	return nil
}

// Withdraw removes amount from the cash balance. It returns
// ErrInsufficientFunds, leaving the balance untouched, when amount exceeds
// the balance. There are no partial withdrawals.
func (a *Account) Withdraw(amount Money) error {
	if amount.IsNegative() {
		return &ValidationError{Message: "amount must be >= 0"}
	}
	if a.cash.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.cash = a.cash.Sub(amount)
	return nil
}

// Buy purchases quantity shares of inst at its current price.
func (a *Account) Buy(inst Instrument, quantity int64) (*Trade, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Message: "quantity must be > 0"}
	}

	if !a.holdings.CanAdd(inst.Symbol, quantity) {
		return nil, &ValidationError{Message: fmt.Sprintf("position in %s would exceed %d shares", inst.Symbol, int64(math.MaxInt64))}
	}

	total := inst.Price.Mul(quantity)
	if a.cash.LessThan(total) {
		return nil, ErrInsufficientFunds
	}

	// Holdings first, then cash. The checks above guarantee both succeed.
	a.holdings.Add(inst.Symbol, quantity)
	if err := a.Withdraw(total); err != nil {
		a.holdings.Remove(inst.Symbol, quantity)
		return nil, err
	}

	return newTrade(SideBuy, inst, quantity, total), nil
}

// Sell sells quantity shares of inst at its current price.
func (a *Account) Sell(inst Instrument, quantity int64) (*Trade, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Message: "quantity must be > 0"}
	}
	if !a.holdings.Has(inst.Symbol, quantity) {
		return nil, ErrInsufficientShares
	}

	total := inst.Price.Mul(quantity)
	a.holdings.Remove(inst.Symbol, quantity)
	a.cash = a.cash.Add(total)

	return newTrade(SideSell, inst, quantity, total), nil
}
