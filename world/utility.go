package world

import (
	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/sao"
)

// marginUtility is the per-step utility function the world hands to agents.
// An offer is worth its quantity times the price margin the agent captures:
// selling above the floor of the selling range, or buying below the ceiling
// of the buying range. Quantity beyond what the agent still needs this step
// contributes nothing.
type marginUtility struct {
	needed    int
	sellRange sao.IssueRange
	buyRange  sao.IssueRange
	sells     bool
	buys      bool
}

var _ agent.UtilityFunction = (*marginUtility)(nil)

// FromOffer returns the utility of a single offer.
func (u *marginUtility) FromOffer(offer sao.Outcome, selling bool) float64 {
	return u.FromOffers([]sao.Outcome{offer}, []bool{selling})
}

// FromOffers returns the joint utility of a set of offers. The needed
// quantity is a shared budget per side: once covered, further quantity adds
// nothing.
func (u *marginUtility) FromOffers(offers []sao.Outcome, selling []bool) float64 {
	soldLeft, boughtLeft := u.needed, u.needed
	total := 0.0
	for i, offer := range offers {
		sell := i < len(selling) && selling[i]
		q := offer.Quantity
		if sell {
			if q > soldLeft {
				q = soldLeft
			}
			soldLeft -= q
			total += float64(q * (offer.UnitPrice - u.sellRange.Min))
		} else {
			if q > boughtLeft {
				q = boughtLeft
			}
			boughtLeft -= q
			total += float64(q * (u.buyRange.Max - offer.UnitPrice))
		}
	}
	return total
}

// MaxUtility returns the utility of covering the whole needed quantity at
// the best price on every side the agent trades on.
func (u *marginUtility) MaxUtility() float64 {
	best := 0
	if u.sells {
		best += u.sellRange.Max - u.sellRange.Min
	}
	if u.buys {
		best += u.buyRange.Max - u.buyRange.Min
	}
	return float64(u.needed * best)
}
