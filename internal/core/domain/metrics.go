package domain

// MaxOccupancy is the capacity ceiling for the occupancy gauge.
const MaxOccupancy = 24

// MetricsSnapshot is the canonical in-memory operational snapshot. It is
// mutated only by the metrics aggregator; every other component reads a
// point-in-time copy.
type MetricsSnapshot struct {
	Revenue        float64 `json:"revenue"`
	Checkins       int     `json:"checkins"`
	PendingTickets int     `json:"pending_tickets"`
	Occupancy      int     `json:"occupancy"`
}

// ClampOccupancy bounds an occupancy value to [0, MaxOccupancy].
func ClampOccupancy(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxOccupancy {
		return MaxOccupancy
	}
	return n
}
