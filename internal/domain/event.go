package domain

// LeaveEvent tags a committed lifecycle transition.
type LeaveEvent string

const (
	EventLeaveCreated         LeaveEvent = "created"
	EventLeaveManagerApproved LeaveEvent = "manager_approved"
	EventLeaveApproved        LeaveEvent = "approved"
	EventLeaveRejected        LeaveEvent = "rejected"
	EventLeaveCancelled       LeaveEvent = "cancelled"
)
