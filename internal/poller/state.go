package poller

import "sort"

// State is everything the poller remembers between ticks. It lives for the process and
// is only touched from the event-loop goroutine.
type State struct {
	// Pending holds ticket ids discovered since the last acknowledgment that are not in the seen store.
	Pending map[string]struct{}
	// Acknowledged is true when no alert is outstanding, so a new one may be raised.
	Acknowledged bool
	// AlertID identifies the alert on screen while Acknowledged is false.
	AlertID string
}

func newState() State {
	return State{Pending: make(map[string]struct{}), Acknowledged: true}
}

// PendingIDs returns the pending ticket ids in ascending order.
func (s State) PendingIDs() []string {
	ids := make([]string, 0, len(s.Pending))
	for id := range s.Pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (s State) clone() State {
	pending := make(map[string]struct{}, len(s.Pending))
	for id := range s.Pending {
		pending[id] = struct{}{}
	}
	s.Pending = pending
	return s
}
