package domain

import (
	"fmt"
	"time"
)

type LeaveCategory string

const (
	CategoryAnnualPaid  LeaveCategory = "YillikUcretliIzin"
	CategoryMarriage    LeaveCategory = "EvlilikIzni"
	CategoryPaternity   LeaveCategory = "BabalikIzni"
	CategoryBereavement LeaveCategory = "OlumIzni"
	CategoryMedical     LeaveCategory = "HastalikIzni"
	CategoryUnpaid      LeaveCategory = "UcretsizIzin"
)

var categories = []LeaveCategory{
	CategoryAnnualPaid,
	CategoryMarriage,
	CategoryPaternity,
	CategoryBereavement,
	CategoryMedical,
	CategoryUnpaid,
}

// ParseLeaveCategory matches the serialized value exactly.
func ParseLeaveCategory(s string) (LeaveCategory, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown leave category %q: %w", s, ErrInvalidArgument)
}

// LeaveCategories returns the accepted category values in display order.
func LeaveCategories() []LeaveCategory {
	out := make([]LeaveCategory, len(categories))
	copy(out, categories)
	return out
}

type LeaveStatus string

const (
	LeavePending         LeaveStatus = "Pending"
	LeaveManagerApproved LeaveStatus = "ManagerApproved"
	LeaveApproved        LeaveStatus = "Approved"
	LeaveRejected        LeaveStatus = "Rejected"
	LeaveCancelled       LeaveStatus = "Cancelled"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s LeaveStatus) IsTerminal() bool {
	switch s {
	case LeaveApproved, LeaveRejected, LeaveCancelled:
		return true
	}
	return false
}

// LeaveRequest is a time-off request moving Pending -> ManagerApproved -> Approved.
// StartDate and EndDate are UTC midnights.
type LeaveRequest struct {
	LeaveID             string        `json:"id" dynamodbav:"leave_id"`
	RequesterID         string        `json:"requester_id" dynamodbav:"requester_id"`
	ManagerID           string        `json:"manager_id,omitempty" dynamodbav:"manager_id,omitempty"`
	StartDate           time.Time     `json:"start_date" dynamodbav:"start_date"`
	EndDate             time.Time     `json:"end_date" dynamodbav:"end_date"`
	TotalDays           int           `json:"total_days" dynamodbav:"total_days"`
	RequestedAt         time.Time     `json:"requested_at" dynamodbav:"requested_at"`
	Category            LeaveCategory `json:"category" dynamodbav:"category"`
	Reason              string        `json:"reason,omitempty" dynamodbav:"reason,omitempty"`
	Status              LeaveStatus   `json:"status" dynamodbav:"status"`
	RejectionReason     string        `json:"rejection_reason,omitempty" dynamodbav:"rejection_reason,omitempty"`
	ManagerApprovalID   *string       `json:"manager_approval_id,omitempty" dynamodbav:"manager_approval_id,omitempty"`
	ManagerApprovalDate *time.Time    `json:"manager_approval_date,omitempty" dynamodbav:"manager_approved_at,omitempty"`
	HRApprovalID        *string       `json:"hr_approval_id,omitempty" dynamodbav:"hr_approval_id,omitempty"`
	HRApprovalDate      *time.Time    `json:"hr_approval_date,omitempty" dynamodbav:"hr_approved_at,omitempty"`
	UpdatedAt           time.Time     `json:"updated" dynamodbav:"updated_at"`
	Version             int64         `json:"version" dynamodbav:"version"`
}

func (l *LeaveRequest) IsTerminal() bool {
	return l.Status.IsTerminal()
}

// Overlaps reports whether the request covers any day in [from, to].
func (l *LeaveRequest) Overlaps(from, to time.Time) bool {
	return !l.StartDate.After(to) && !l.EndDate.Before(from)
}

// CreateLeaveRequest is the wire shape for filing a leave. Dates are YYYY-MM-DD.
type CreateLeaveRequest struct {
	StartDate string  `json:"start_date" validate:"required,yyyymmdd"`
	EndDate   string  `json:"end_date" validate:"required,yyyymmdd"`
	Category  string  `json:"category" validate:"required"`
	Reason    *string `json:"reason" validate:"omitempty,max=1000"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}
