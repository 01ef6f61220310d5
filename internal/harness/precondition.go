package harness

// Precondition is a named predicate checked before a gated scenario body runs
type Precondition struct {
	// Reason is reported as the skip reason when the check fails
	Reason string
	Check  func() bool
}

// Met reports whether the precondition holds. A nil check always holds.
func (p Precondition) Met() bool {
	return p.Check == nil || p.Check()
}

// When builds a precondition from a fixed value
func When(cond bool, reason string) Precondition {
	return Precondition{Reason: reason, Check: func() bool { return cond }}
}
