package domain

// TicketStatus is the lifecycle state of a civic-issue ticket.
type TicketStatus string

const (
	TicketReceived   TicketStatus = "received"
	TicketAssigned   TicketStatus = "assigned"
	TicketInProgress TicketStatus = "in_progress"
	TicketCompleted  TicketStatus = "completed"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// TicketStatuses lists every known status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketReceived,
	TicketAssigned,
	TicketInProgress,
	TicketCompleted,
	TicketResolved,
	TicketClosed,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}
