package sao

import (
	"fmt"
	"math/rand"
)

// Issue indexes into an outcome. The ordering is fixed: quantity first,
// delivery time second, unit price last.
const (
	Quantity = iota
	Time
	UnitPrice
)

// Outcome is a single point in the negotiation space: a quantity of goods,
// a delivery step, and a unit price.
type Outcome struct {
	Quantity  int `yaml:"quantity" json:"quantity"`
	Time      int `yaml:"time" json:"time"`
	UnitPrice int `yaml:"unit_price" json:"unit_price"`
}

// Value returns the value of the given issue index.
func (o Outcome) Value(issue int) int {
	switch issue {
	case Quantity:
		return o.Quantity
	case Time:
		return o.Time
	case UnitPrice:
		return o.UnitPrice
	default:
		panic(fmt.Sprintf("sao: invalid issue index %d", issue))
	}
}

// Total returns the total money exchanged if the outcome is executed in full.
func (o Outcome) Total() int {
	return o.Quantity * o.UnitPrice
}

// String returns a compact human-readable form of the outcome.
func (o Outcome) String() string {
	return fmt.Sprintf("(q=%d, t=%d, p=%d)", o.Quantity, o.Time, o.UnitPrice)
}

// IssueRange is the inclusive range of values a single issue can take.
type IssueRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports whether v falls inside the range.
func (r IssueRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp returns v limited to the range.
func (r IssueRange) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Rand draws a uniform value from the range using rng.
func (r IssueRange) Rand(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// OutcomeSpace describes the ranges of all three issues for one negotiation.
type OutcomeSpace struct {
	QuantityRange  IssueRange `yaml:"quantity" json:"quantity"`
	TimeRange      IssueRange `yaml:"time" json:"time"`
	UnitPriceRange IssueRange `yaml:"unit_price" json:"unit_price"`
}

// Contains reports whether the outcome lies inside every issue range.
func (s OutcomeSpace) Contains(o Outcome) bool {
	return s.QuantityRange.Contains(o.Quantity) &&
		s.TimeRange.Contains(o.Time) &&
		s.UnitPriceRange.Contains(o.UnitPrice)
}

// Rand draws a uniform outcome from the space using rng.
func (s OutcomeSpace) Rand(rng *rand.Rand) Outcome {
	return Outcome{
		Quantity:  s.QuantityRange.Rand(rng),
		Time:      s.TimeRange.Rand(rng),
		UnitPrice: s.UnitPriceRange.Rand(rng),
	}
}
