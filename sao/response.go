package sao

// ResponseType enumerates the possible reactions of a negotiator to an offer.
type ResponseType int

const (
	// RejectOffer rejects the standing offer. The rejecting side is expected
	// to have a counter offer.
	RejectOffer ResponseType = iota

	// AcceptOffer accepts the standing offer, concluding the negotiation.
	AcceptOffer

	// EndNegotiation breaks off the negotiation without agreement.
	EndNegotiation

	// NoResponse indicates the negotiator did not respond this round.
	NoResponse
)

// String returns a string representation of the response type.
func (r ResponseType) String() string {
	switch r {
	case RejectOffer:
		return "reject"
	case AcceptOffer:
		return "accept"
	case EndNegotiation:
		return "end"
	case NoResponse:
		return "no_response"
	default:
		return "unknown"
	}
}

// Response couples a response type with an optional counter offer. The
// counter offer is only meaningful when Type is RejectOffer.
type Response struct {
	Type    ResponseType
	Outcome Outcome
	// HasOutcome distinguishes a reject-with-counter from a bare reject.
	HasOutcome bool
}

// Accept builds an acceptance response.
func Accept() Response {
	return Response{Type: AcceptOffer}
}

// End builds an end-negotiation response.
func End() Response {
	return Response{Type: EndNegotiation}
}

// Counter builds a rejection carrying a counter offer.
func Counter(o Outcome) Response {
	return Response{Type: RejectOffer, Outcome: o, HasOutcome: true}
}
