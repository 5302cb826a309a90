package leave

// =============================================================================
// REQUEST STATE MACHINE
// =============================================================================
//
//   pending  -> approved | rejected | cancelled
//   approved -> cancelled   (triggers a ledger credit for the prior debit)
//   rejected -> (sink)
//   cancelled-> (sink)
//
// Every mutation validates against this table; callers never compare status
// strings directly.

var transitions = map[RequestStatus]map[RequestStatus]bool{
	StatusPending: {
		StatusApproved:  true,
		StatusRejected:  true,
		StatusCancelled: true,
	},
	StatusApproved: {
		StatusCancelled: true,
	},
	StatusRejected:  {},
	StatusCancelled: {},
}

// CanTransition reports whether the state machine permits from -> to.
func CanTransition(from, to RequestStatus) bool {
	return transitions[from][to]
}

// checkTransition returns an InvalidStateError if the transition is not
// permitted for the request.
func checkTransition(r *TimeOffRequest, to RequestStatus) error {
	if !CanTransition(r.Status, to) {
		return &InvalidStateError{RequestID: r.ID, From: r.Status, To: to}
	}
	return nil
}
