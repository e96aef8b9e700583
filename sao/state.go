package sao

// State is a snapshot of a running negotiation, passed to negotiators on
// every propose/respond call.
type State struct {
	// Step is the current negotiation round, starting at zero.
	Step int

	// NSteps is the maximum number of rounds before the negotiation times out.
	NSteps int

	// CurrentOffer is the standing offer on the table, if any.
	CurrentOffer Outcome

	// HasOffer reports whether CurrentOffer is meaningful.
	HasOffer bool

	// CurrentProposer is the ID of the negotiator that made the standing offer.
	CurrentProposer string

	// Running is true while the negotiation has neither concluded nor broken.
	Running bool

	// Agreement holds the agreed outcome when HasAgreement is true.
	Agreement    Outcome
	HasAgreement bool

	// Broken is true when a negotiator ended the negotiation.
	Broken bool

	// TimedOut is true when the step limit was reached without agreement.
	TimedOut bool
}

// RelativeTime returns the fraction of the allowed rounds already used,
// in [0, 1].
func (s *State) RelativeTime() float64 {
	if s.NSteps <= 0 {
		return 1
	}
	return float64(s.Step) / float64(s.NSteps)
}

// LastStep reports whether the negotiation is on its final round.
func (s *State) LastStep() bool {
	return s.Step >= s.NSteps-1
}

// Done reports whether the negotiation has ended for any reason.
func (s *State) Done() bool {
	return !s.Running
}
