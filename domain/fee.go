package domain

import "math/big"

type Venue string

const (
	VenueBondingCurve Venue = "bonding_curve"
	VenueAMM          Venue = "amm"
)

type VenueFee struct {
	Venue  Venue
	Amount *big.Int
}

// PendingFees is the claimable creator fee read fresh at the start of a run.
type PendingFees struct {
	Venues []VenueFee
}

func (p *PendingFees) Add(venue Venue, amount *big.Int) {
	if amount == nil {
		amount = new(big.Int)
	}
	p.Venues = append(p.Venues, VenueFee{Venue: venue, Amount: new(big.Int).Set(amount)})
}

func (p *PendingFees) Total() *big.Int {
	total := new(big.Int)
	if p == nil {
		return total
	}
	for _, v := range p.Venues {
		total.Add(total, v.Amount)
	}
	return total
}

// Claimable lists the venues holding a positive amount.
func (p *PendingFees) Claimable() []Venue {
	venues := make([]Venue, 0, len(p.Venues))
	for _, v := range p.Venues {
		if IsPositive(v.Amount) {
			venues = append(venues, v.Venue)
		}
	}
	return venues
}
