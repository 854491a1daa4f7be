package calculation

import (
	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/cryptofire/fire-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// MonotoneSearch walks state forward one year at a time from startYear. At
// each year it tests reached before applying step. It returns the first year
// reached holds, or false once the year passes capYear.
func MonotoneSearch[T any](start T, startYear, capYear int, reached func(T) bool, step func(T) T) (int, bool) {
	state := start
	for year := startYear; year <= capYear; year++ {
		if reached(state) {
			return year, true
		}
		state = step(state)
	}
	return 0, false
}

// CrossingInput is one target search.
type CrossingInput struct {
	StartValue decimal.Decimal
	Rate       decimal.Decimal
	Target     decimal.Decimal
	StartYear  int
	StartAge   int
	// CapYear is inclusive.
	CapYear int
}

// FindCrossing returns the first year the balance, grown at Rate each year,
// is at least Target. A rate at or below -1 empties the balance after the
// first year and the search runs out at CapYear.
func FindCrossing(in CrossingInput) domain.CrossingResult {
	factor := one.Add(in.Rate)
	collapsed := !factor.IsPositive()

	year, ok := MonotoneSearch(in.StartValue, in.StartYear, in.CapYear,
		func(v decimal.Decimal) bool { return v.GreaterThanOrEqual(in.Target) },
		func(v decimal.Decimal) decimal.Decimal {
			if collapsed {
				return decimal.Zero
			}
			return v.Mul(factor)
		},
	)

	result := domain.CrossingResult{Rate: in.Rate, CapYear: in.CapYear}
	if !ok {
		return result
	}
	result.Reached = true
	result.Year = year
	result.Age = dateutil.AgeAt(in.StartAge, in.StartYear, year)
	return result
}
