package sao

import (
	"math/rand"
	"testing"
)

func TestIssueRangeClamp(t *testing.T) {
	r := IssueRange{Min: 3, Max: 7}
	tests := []struct {
		in   int
		want int
	}{
		{0, 3}, {3, 3}, {5, 5}, {7, 7}, {100, 7},
	}
	for _, tt := range tests {
		if got := r.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestOutcomeSpaceContains(t *testing.T) {
	space := OutcomeSpace{
		QuantityRange:  IssueRange{Min: 1, Max: 10},
		TimeRange:      IssueRange{Min: 0, Max: 3},
		UnitPriceRange: IssueRange{Min: 5, Max: 15},
	}
	if !space.Contains(Outcome{Quantity: 1, Time: 0, UnitPrice: 5}) {
		t.Error("lower corner should be inside")
	}
	if !space.Contains(Outcome{Quantity: 10, Time: 3, UnitPrice: 15}) {
		t.Error("upper corner should be inside")
	}
	if space.Contains(Outcome{Quantity: 0, Time: 0, UnitPrice: 5}) {
		t.Error("zero quantity should be outside")
	}
	if space.Contains(Outcome{Quantity: 1, Time: 4, UnitPrice: 5}) {
		t.Error("late delivery should be outside")
	}
}

func TestOutcomeSpaceRandStaysInside(t *testing.T) {
	space := OutcomeSpace{
		QuantityRange:  IssueRange{Min: 1, Max: 10},
		TimeRange:      IssueRange{Min: 2, Max: 2},
		UnitPriceRange: IssueRange{Min: 5, Max: 15},
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		o := space.Rand(rng)
		if !space.Contains(o) {
			t.Fatalf("drew %s outside the space", o)
		}
		if o.Time != 2 {
			t.Fatalf("degenerate time range drew %d", o.Time)
		}
	}
}

func TestOutcomeTotal(t *testing.T) {
	o := Outcome{Quantity: 4, Time: 1, UnitPrice: 12}
	if got := o.Total(); got != 48 {
		t.Errorf("Total = %d, want 48", got)
	}
}
