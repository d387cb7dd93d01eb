package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Subject            string                   `json:"subject"`
	ComplaintAgainst   string                   `json:"complaintAgainst"`
	Description        string                   `json:"description"`
	Priority           domain.ComplaintPriority `json:"priority"`
	Attachments        []string                 `json:"attachments"`
	TermsAndConditions bool                     `json:"termsAndConditions"`
}

// BulkCreateComplaintRequest wraps multiple complaints for one upload.
type BulkCreateComplaintRequest struct {
	Complaints []CreateComplaintRequest `json:"complaints"`
}

// UpdateComplaintRequest payload; omitted fields are left unchanged.
type UpdateComplaintRequest struct {
	Description *string                   `json:"description"`
	Status      *domain.ComplaintStatus   `json:"status"`
	Priority    *domain.ComplaintPriority `json:"priority"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	AssigneeID string `json:"assigneeId"`
	Note       string `json:"note"`
}

// ReplyRequest payload for officer replies.
type ReplyRequest struct {
	Text string `json:"text"`
}

// InternalNoteRequest payload.
type InternalNoteRequest struct {
	Note string `json:"note"`
}

// PostMessageRequest payload for thread messages.
type PostMessageRequest struct {
	ComplaintID string `json:"complaintId"`
	Text        string `json:"text"`
}

// ComplaintResponse is the complaint view returned to clients.
type ComplaintResponse struct {
	ID                 string                   `json:"id"`
	CustomerID         string                   `json:"customerId"`
	Subject            string                   `json:"subject"`
	ComplaintAgainst   string                   `json:"complaintAgainst"`
	Description        string                   `json:"description"`
	AssignedTo         *string                  `json:"assignedTo"`
	Priority           domain.ComplaintPriority `json:"priority"`
	Status             domain.ComplaintStatus   `json:"status"`
	Attachments        []string                 `json:"attachments"`
	TermsAndConditions bool                     `json:"termsAndConditions"`
	CreatedAt          time.Time                `json:"createdAt"`
	UpdatedAt          time.Time                `json:"updatedAt"`
}

// NewComplaintResponse maps a complaint to its response form.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:                 c.ID,
		CustomerID:         c.CustomerID,
		Subject:            c.Subject,
		ComplaintAgainst:   c.ComplaintAgainst,
		Description:        c.Description,
		AssignedTo:         c.AssignedTo,
		Priority:           c.Priority,
		Status:             c.Status,
		Attachments:        c.Attachments,
		TermsAndConditions: c.TermsAndConditions,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// NewComplaintResponses maps a complaint slice.
func NewComplaintResponses(complaints []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		out = append(out, NewComplaintResponse(&complaints[i]))
	}
	return out
}

// MessageResponse represents a thread message.
type MessageResponse struct {
	ID          string    `json:"id"`
	ComplaintID string    `json:"complaintId"`
	SenderID    string    `json:"senderId"`
	Text        string    `json:"text"`
	IsInternal  bool      `json:"isInternal"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewMessageResponse maps a message to its response form.
func NewMessageResponse(m *domain.ComplaintMessage) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		ComplaintID: m.ComplaintID,
		SenderID:    m.SenderID,
		Text:        m.Text,
		IsInternal:  m.IsInternal,
		CreatedAt:   m.CreatedAt,
	}
}

// NoteResponse represents an internal note.
type NoteResponse struct {
	ID          string    `json:"id"`
	ComplaintID string    `json:"complaintId"`
	SenderID    string    `json:"senderId"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewNoteResponse maps a note to its response form.
func NewNoteResponse(n *domain.InternalNote) NoteResponse {
	return NoteResponse{
		ID:          n.ID,
		ComplaintID: n.ComplaintID,
		SenderID:    n.SenderID,
		Note:        n.Note,
		CreatedAt:   n.CreatedAt,
	}
}
