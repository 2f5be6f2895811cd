package market

import (
	"fmt"
	"strings"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/google/btree"
	"github.com/shopspring/decimal"
)

// maxChange is the largest relative move a single simulation step applies
// in either direction.
var maxChange = decimal.NewFromFloat(0.05)

// RandSource yields uniform values in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type RandSource interface {
	Float64() float64
}

// entry is a catalog slot. Prices are mutated in place through the pointer
// so the tree never needs rebalancing after a simulation step.
type entry struct {
	symbol string
	price  domain.Money
}

func symbolLess(a, b *entry) bool {
	return a.symbol < b.symbol
}

// Catalog owns the fixed set of tradable instruments and their current
// prices. Membership never changes after construction.
//
// Catalog is not safe for concurrent use; the service layer serializes
// access.
type Catalog struct {
	tree *btree.BTreeG[*entry]
}

// minPrice is the lowest listed price. A random step never takes a price
// at or above it back down to zero.
var minPrice = domain.MoneyFromCents(1)

// NewCatalog builds a catalog from the given instruments. Symbols are
// normalized to upper case. It rejects an empty list, empty symbols,
// prices below one cent and duplicate symbols.
func NewCatalog(instruments []domain.Instrument) (*Catalog, error) {
	if len(instruments) == 0 {
		return nil, &domain.ValidationError{Message: "catalog must contain at least one instrument"}
	}

	const degree = 8
	c := &Catalog{tree: btree.NewG[*entry](degree, symbolLess)}

	for _, inst := range instruments {
		symbol := normalize(inst.Symbol)
		if symbol == "" {
			return nil, &domain.ValidationError{Message: "instrument symbol must not be empty"}
		}
		if inst.Price.LessThan(minPrice) {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("price for %s must be at least %s", symbol, minPrice),
			}
		}
		if _, replaced := c.tree.ReplaceOrInsert(&entry{symbol: symbol, price: inst.Price}); replaced {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("duplicate symbol in catalog: %s", symbol),
			}
		}
	}

	return c, nil
}

// Lookup returns the instrument for symbol, matched after trimming and
// upper-casing. It returns domain.ErrSymbolNotFound for unknown symbols.
func (c *Catalog) Lookup(symbol string) (domain.Instrument, error) {
	e, ok := c.tree.Get(&entry{symbol: normalize(symbol)})
	if !ok {
		return domain.Instrument{}, domain.ErrSymbolNotFound
	}
	return domain.Instrument{Symbol: e.symbol, Price: e.price}, nil
}

// ListAll returns every instrument in ascending symbol order.
func (c *Catalog) ListAll() []domain.Instrument {
	out := make([]domain.Instrument, 0, c.tree.Len())
	c.tree.Ascend(func(e *entry) bool {
		out = append(out, domain.Instrument{Symbol: e.symbol, Price: e.price})
		return true
	})
	return out
}

// Len returns the number of instruments.
func (c *Catalog) Len() int {
	return c.tree.Len()
}

// SimulatePriceChanges moves every price by a uniform random percentage in
// [-5%, +5%] and rounds the result to cents, half away from zero.
func (c *Catalog) SimulatePriceChanges(rng RandSource) {
	c.tree.Ascend(func(e *entry) bool {
		e.price = step(e.price, rng.Float64())
		return true
	})
}

// step applies one move for a draw u in [0, 1]: u=0 is -5%, u=1 is +5%.
func step(price domain.Money, u float64) domain.Money {
	// (u - 0.5) * 2 * 5% keeps the factor inside [0.95, 1.05] exactly.
	change := decimal.NewFromFloat(u).Sub(decimal.NewFromFloat(0.5)).Mul(decimal.NewFromInt(2)).Mul(maxChange)
	factor := decimal.NewFromInt(1).Add(change)
	return domain.NewMoney(price.Decimal().Mul(factor)).Round()
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
