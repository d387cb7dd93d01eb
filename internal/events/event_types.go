package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountActivated       EventType = "account_activated"
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintReplied       EventType = "complaint_replied"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
)

// Event is a domain event emitted by services. SubjectID is the
// account or complaint the event is about; ActorID identifies who
// caused it when known.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subjectId"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Subject  string                   `json:"subject"`
	Priority domain.ComplaintPriority `json:"priority"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AssigneeID string `json:"assigneeId"`
}

// ComplaintRepliedPayload payload.
type ComplaintRepliedPayload struct {
	MessageID   string `json:"messageId"`
	BodyPreview string `json:"bodyPreview"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"oldStatus"`
	NewStatus domain.ComplaintStatus `json:"newStatus"`
}
