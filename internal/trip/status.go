package trip

// DeriveStatus computes the lifecycle state implied by the actual start and
// end times. An end time always means completed, a start time alone means in
// progress, neither means the trip is still assigned. Cancellation is not
// derivable from times and is preserved as-is.
func DeriveStatus(start, end string, current Status) Status {
	if current == StatusCancelled {
		return StatusCancelled
	}
	if end != "" {
		return StatusCompleted
	}
	if start != "" {
		return StatusInProgress
	}
	return StatusAssigned
}

// TimePatch is a manual edit of a trip's recorded times. A nil field leaves
// the stored value untouched, a pointer to the empty string clears it.
type TimePatch struct {
	Start *string
	End   *string
}

// apply merges the patch over the stored times and returns the result.
func (p TimePatch) apply(start, end string) (string, string) {
	if p.Start != nil {
		start = *p.Start
	}
	if p.End != nil {
		end = *p.End
	}
	return start, end
}
