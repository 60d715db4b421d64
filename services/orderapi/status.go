package orderapi

const (
	StatusPending    = "pending"
	StatusOnHold     = "on-hold"
	StatusFailed     = "failed"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

var statusRank = map[string]int{
	StatusPending:    0,
	StatusOnHold:     1,
	StatusFailed:     2,
	StatusProcessing: 3,
	StatusCompleted:  4,
	StatusCancelled:  4,
	StatusRefunded:   4,
}

// CanTransition only allows moving forward: pending < on-hold < failed < processing < completed/cancelled/refunded.
// Unknown statuses rank as pending.
func CanTransition(from string, to string) bool {
	return statusRank[to] > statusRank[from]
}

// CountsAsBooked reports whether the order holds a seat
func CountsAsBooked(status string) bool {
	return status == StatusProcessing || status == StatusOnHold || status == StatusCompleted
}
