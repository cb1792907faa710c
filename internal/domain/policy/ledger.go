package policy

type reservationKey struct {
	building string
	item     string
	branch   int
}

// ledger records speculative reservations made while estimating. Each recursion branch gets its
// own identity; a branch works on a clone and only the winning clones are merged back.
type ledger struct {
	entries map[reservationKey]int
}

func newLedger() *ledger {
	return &ledger{entries: make(map[reservationKey]int)}
}

func (l *ledger) clone() *ledger {
	c := &ledger{entries: make(map[reservationKey]int, len(l.entries))}
	for k, v := range l.entries {
		c.entries[k] = v
	}
	return c
}

// reserved sums what every branch holds of item at building
func (l *ledger) reserved(building, item string) int {
	total := 0
	for k, v := range l.entries {
		if k.building == building && k.item == item {
			total += v
		}
	}
	return total
}

func (l *ledger) reserve(building, item string, branch, quantity int) {
	if quantity <= 0 {
		return
	}
	l.entries[reservationKey{building: building, item: item, branch: branch}] += quantity
}

// merge adopts every entry of other. other must descend from l, so shared entries are equal.
func (l *ledger) merge(other *ledger) {
	for k, v := range other.entries {
		l.entries[k] = v
	}
}
