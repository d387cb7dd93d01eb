package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrAssigneeNotFound  = errors.New("assignee not found")
)

// ComplaintService owns the complaint lifecycle: creation, listing
// scoped by role, assignment, replies and internal notes.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	messages   repository.MessageRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewComplaintService builds the service.
func NewComplaintService(
	complaints repository.ComplaintRepository,
	messages repository.MessageRepository,
	accounts repository.AccountRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *ComplaintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: complaints,
		messages:   messages,
		accounts:   accounts,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateComplaintInput describes a new complaint.
type CreateComplaintInput struct {
	Subject            string
	ComplaintAgainst   string
	Description        string
	Priority           domain.ComplaintPriority
	Attachments        []string
	TermsAndConditions bool
}

func (in CreateComplaintInput) toComplaint(customerID string) (*domain.Complaint, error) {
	priority := in.Priority
	if priority == "" {
		priority = domain.ComplaintPriorityLow
	}
	if !domain.ValidComplaintPriority(priority) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}
	return &domain.Complaint{
		CustomerID:         customerID,
		Subject:            in.Subject,
		ComplaintAgainst:   in.ComplaintAgainst,
		Description:        in.Description,
		Priority:           priority,
		Status:             domain.ComplaintStatusOpen,
		Attachments:        in.Attachments,
		TermsAndConditions: in.TermsAndConditions,
	}, nil
}

// Create files a complaint for the customer.
func (s *ComplaintService) Create(ctx context.Context, customerID string, input CreateComplaintInput) (*domain.Complaint, error) {
	complaint, err := input.toComplaint(customerID)
	if err != nil {
		return nil, err
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventComplaintCreated, complaint.ID, &customerID, events.ComplaintCreatedPayload{
		Subject:  complaint.Subject,
		Priority: complaint.Priority,
	})
	return complaint, nil
}

// BulkCreate files multiple complaints in one round trip. All rows are
// validated before any write so a bad row rejects the whole batch.
func (s *ComplaintService) BulkCreate(ctx context.Context, customerID string, inputs []CreateComplaintInput) ([]*domain.Complaint, error) {
	complaints := make([]*domain.Complaint, 0, len(inputs))
	for _, input := range inputs {
		complaint, err := input.toComplaint(customerID)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, complaint)
	}

	if err := s.complaints.CreateBatch(ctx, complaints); err != nil {
		return nil, err
	}

	for _, complaint := range complaints {
		s.publish(ctx, events.EventComplaintCreated, complaint.ID, &customerID, events.ComplaintCreatedPayload{
			Subject:  complaint.Subject,
			Priority: complaint.Priority,
		})
	}
	return complaints, nil
}

// ListFor returns complaints visible to the principal. Customers see
// their own, officers see their assignments, admins see everything.
func (s *ComplaintService) ListFor(ctx context.Context, principal *domain.Account) ([]domain.Complaint, error) {
	switch principal.Role {
	case domain.RoleCustomer:
		return s.complaints.ListByCustomer(ctx, principal.ID)
	case domain.RoleOfficer:
		return s.complaints.ListByAssignee(ctx, principal.ID)
	default:
		return s.complaints.ListAll(ctx)
	}
}

// GetByID fetches a single complaint.
func (s *ComplaintService) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrComplaintNotFound
	}
	return complaint, err
}

// UpdateComplaintInput carries the mutable complaint fields; nil means
// leave unchanged.
type UpdateComplaintInput struct {
	Description *string
	Status      *domain.ComplaintStatus
	Priority    *domain.ComplaintPriority
}

// Update applies a partial edit and publishes a status-change event
// when the status actually moved.
func (s *ComplaintService) Update(ctx context.Context, actorID, id string, input UpdateComplaintInput) (*domain.Complaint, error) {
	complaint, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	if input.Description != nil {
		complaint.Description = *input.Description
	}
	if input.Status != nil {
		if !domain.ValidComplaintStatus(*input.Status) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *input.Status)
		}
		complaint.Status = *input.Status
	}
	if input.Priority != nil {
		if !domain.ValidComplaintPriority(*input.Priority) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, *input.Priority)
		}
		complaint.Priority = *input.Priority
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	if complaint.Status != oldStatus {
		s.publish(ctx, events.EventComplaintStatusChanged, complaint.ID, &actorID, events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: complaint.Status,
		})
	}
	return complaint, nil
}

// SoftDelete hides a complaint from all listings without destroying the
// row.
func (s *ComplaintService) SoftDelete(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrComplaintNotFound
	}
	return complaint, err
}

// Assign routes a complaint to an officer, optionally recording an
// internal note alongside.
func (s *ComplaintService) Assign(ctx context.Context, actorID, id, assigneeID, note string) (*domain.Complaint, error) {
	if _, err := s.accounts.FindByID(ctx, assigneeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, err
	}

	complaint, err := s.complaints.Assign(ctx, id, assigneeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, err
	}

	if note != "" {
		internalNote := &domain.InternalNote{
			ComplaintID: complaint.ID,
			SenderID:    actorID,
			Note:        note,
		}
		if err := s.complaints.AddNote(ctx, internalNote); err != nil {
			s.logger.Warn("assignment note not recorded",
				zap.String("complaint_id", complaint.ID), zap.Error(err))
		}
	}

	s.publish(ctx, events.EventComplaintAssigned, complaint.ID, &actorID, events.ComplaintAssignedPayload{
		AssigneeID: assigneeID,
	})
	return complaint, nil
}

// Reply posts an officer reply on the thread and marks the complaint
// answered.
func (s *ComplaintService) Reply(ctx context.Context, senderID, complaintID, text string) (*domain.ComplaintMessage, error) {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	message := &domain.ComplaintMessage{
		ComplaintID: complaint.ID,
		SenderID:    senderID,
		Text:        text,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	if complaint.Status != domain.ComplaintStatusAnswered {
		complaint.Status = domain.ComplaintStatusAnswered
		if err := s.complaints.Update(ctx, complaint); err != nil {
			s.logger.Warn("status not advanced after reply",
				zap.String("complaint_id", complaint.ID), zap.Error(err))
		}
	}

	s.publish(ctx, events.EventComplaintReplied, complaint.ID, &senderID, events.ComplaintRepliedPayload{
		MessageID:   message.ID,
		BodyPreview: preview(text, 120),
	})
	return message, nil
}

// AddInternalNote records a staff-only note on a complaint.
func (s *ComplaintService) AddInternalNote(ctx context.Context, senderID, complaintID, text string) (*domain.InternalNote, error) {
	if _, err := s.GetByID(ctx, complaintID); err != nil {
		return nil, err
	}

	note := &domain.InternalNote{
		ComplaintID: complaintID,
		SenderID:    senderID,
		Note:        text,
	}
	if err := s.complaints.AddNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// PostMessage appends a thread message without changing complaint
// state.
func (s *ComplaintService) PostMessage(ctx context.Context, senderID, complaintID, text string) (*domain.ComplaintMessage, error) {
	if _, err := s.GetByID(ctx, complaintID); err != nil {
		return nil, err
	}

	message := &domain.ComplaintMessage{
		ComplaintID: complaintID,
		SenderID:    senderID,
		Text:        text,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages returns the thread for a complaint.
func (s *ComplaintService) ListMessages(ctx context.Context, complaintID string) ([]domain.ComplaintMessage, error) {
	if _, err := s.GetByID(ctx, complaintID); err != nil {
		return nil, err
	}
	return s.messages.ListByComplaint(ctx, complaintID)
}

func (s *ComplaintService) publish(ctx context.Context, typ events.EventType, subjectID string, actorID *string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// preview truncates s to at most max bytes on a rune boundary.
func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := 0
	for i := range s {
		if i > max {
			break
		}
		cut = i
	}
	return s[:cut]
}
