// internal/service/price_model.go
package service

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"tokentrade/internal/domain"
)

// PriceModel computes the next price of a token from its current price. The
// result must stay strictly positive; beyond that the distribution is the
// model's business.
type PriceModel interface {
	NextPrice(current decimal.Decimal) decimal.Decimal
}

// RandomWalkModel perturbs the current price by a uniform random variation of
// up to ±MaxVariation, rounded to price precision and clamped to MinPrice.
type RandomWalkModel struct {
	MaxVariation float64
	MinPrice     decimal.Decimal
}

// NewRandomWalkModel returns the default model: ±5% variation, floor 0.0001.
func NewRandomWalkModel() RandomWalkModel {
	return RandomWalkModel{
		MaxVariation: 0.05,
		MinPrice:     decimal.New(1, -domain.PricePrecision),
	}
}

// NextPrice returns the perturbed price.
func (m RandomWalkModel) NextPrice(current decimal.Decimal) decimal.Decimal {
	variation := (rand.Float64()*2 - 1) * m.MaxVariation
	next := current.Mul(decimal.NewFromFloat(1 + variation)).Round(domain.PricePrecision)
	if next.LessThan(m.MinPrice) {
		return m.MinPrice
	}
	return next
}
