package registry

// transitions is the tenant lifecycle table. Status only ever moves forward
// along it; the single loop allowed is active ⇄ suspended.
var transitions = map[Status][]Status{
	StatusProvisioning: {StatusActive},
	StatusActive:       {StatusSuspended, StatusDeactivated},
	StatusSuspended:    {StatusActive, StatusDeactivated},
	StatusDeactivated:  {StatusDeleted},
	StatusDeleted:      {},
}

// CanTransition reports whether moving from one status to another is allowed
// by the tenant lifecycle.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
