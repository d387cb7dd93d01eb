package domain

import "time"

// ComplaintStatus enumerates complaint lifecycle states.
type ComplaintStatus string

const (
	ComplaintStatusOpen     ComplaintStatus = "open"
	ComplaintStatusAnswered ComplaintStatus = "answered"
	ComplaintStatusClosed   ComplaintStatus = "closed"
)

// ValidComplaintStatus reports whether s is a known status.
func ValidComplaintStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintStatusOpen, ComplaintStatusAnswered, ComplaintStatusClosed:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
	ComplaintPriorityUrgent ComplaintPriority = "urgent"
)

// ValidComplaintPriority reports whether p is a known priority.
func ValidComplaintPriority(p ComplaintPriority) bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh, ComplaintPriorityUrgent:
		return true
	}
	return false
}

// Complaint is the aggregate for customer complaints. Deletion is soft:
// IsDeleted hides the record from listings without losing history.
type Complaint struct {
	ID                 string
	CustomerID         string
	Subject            string
	ComplaintAgainst   string
	Description        string
	AssignedTo         *string
	Priority           ComplaintPriority
	Status             ComplaintStatus
	Attachments        []string
	TermsAndConditions bool
	IsDeleted          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InternalNote is a staff-only annotation on a complaint.
type InternalNote struct {
	ID          string
	ComplaintID string
	SenderID    string
	Note        string
	CreatedAt   time.Time
}
