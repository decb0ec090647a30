package calculation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/krishadi/ulgo/internal/domain"
)

// RateTable supplies cost-of-insurance rates. Rates are monthly, per 1,000
// of amount-at-risk. Implementations return false outside table bounds; the
// engine clamps the age before asking.
type RateTable interface {
	// MonthlyCOIRate returns the per-1,000 monthly COI rate for an age and
	// gender, or false when the table has no entry.
	MonthlyCOIRate(age int, gender domain.Gender) (decimal.Decimal, bool)

	// AgeBounds returns the inclusive age range the table covers.
	AgeBounds() (min, max int)
}

// StaticRateTable is a RateTable backed by per-age slices.
type StaticRateTable struct {
	MinAge int
	MaxAge int
	Male   []decimal.Decimal
	Female []decimal.Decimal
}

// MonthlyCOIRate implements RateTable.
func (t *StaticRateTable) MonthlyCOIRate(age int, gender domain.Gender) (decimal.Decimal, bool) {
	if age < t.MinAge || age > t.MaxAge {
		return decimal.Zero, false
	}
	idx := age - t.MinAge
	if gender == domain.GenderFemale {
		return t.Female[idx], true
	}
	return t.Male[idx], true
}

// AgeBounds implements RateTable.
func (t *StaticRateTable) AgeBounds() (int, int) {
	return t.MinAge, t.MaxAge
}

// femaleCOIFactor discounts the male rate for the female table column.
const femaleCOIFactor = 0.85

// DefaultRateTable builds the shipped COI table for ages 0-99. Annual
// mortality follows a Gompertz-Makeham curve and is converted to a monthly
// per-1,000 rate. Product deployments replace this with the filed table.
func DefaultRateTable() *StaticRateTable {
	const (
		makehamA  = 0.0002
		gompertzB = 0.00003
		gompertzC = 0.085
	)

	t := &StaticRateTable{MinAge: 0, MaxAge: 99}
	t.Male = make([]decimal.Decimal, t.MaxAge-t.MinAge+1)
	t.Female = make([]decimal.Decimal, t.MaxAge-t.MinAge+1)

	for age := t.MinAge; age <= t.MaxAge; age++ {
		annual := makehamA + gompertzB*math.Exp(gompertzC*float64(age))
		monthlyPerThousand := annual / 12 * 1000
		t.Male[age-t.MinAge] = decimal.NewFromFloat(monthlyPerThousand).Round(6)
		t.Female[age-t.MinAge] = decimal.NewFromFloat(monthlyPerThousand * femaleCOIFactor).Round(6)
	}
	return t
}

// RiderPremiumFunc returns the annual premium for an external rider (for
// example a health-care rider) at an attained age, or false when the rider
// table has no entry. Used only when constructing a funding obligation for
// the premium solver, never by the simulator.
type RiderPremiumFunc func(age int, gender domain.Gender) (decimal.Decimal, bool)

// DefaultHealthRiderPremium is a placeholder health rider tariff: a base
// annual premium compounding with age from a reference age of 40.
func DefaultHealthRiderPremium(age int, gender domain.Gender) (decimal.Decimal, bool) {
	if age < 0 || age > 99 {
		return decimal.Zero, false
	}
	const (
		basePremium = 3_000_000
		ageGrowth   = 0.05
		refAge      = 40
	)
	premium := basePremium * math.Pow(1+ageGrowth, float64(age-refAge))
	if gender == domain.GenderFemale {
		premium *= 0.9
	}
	return decimal.NewFromFloat(premium).Round(0), true
}
