package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/mail"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// NotificationService fans domain events out to customers by email and
// to an optional operations webhook. Handlers never fail the publisher;
// delivery problems are logged and dropped.
type NotificationService struct {
	dispatcher events.Dispatcher
	accounts   repository.AccountRepository
	complaints repository.ComplaintRepository
	mailer     mail.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(
	dispatcher events.Dispatcher,
	accounts repository.AccountRepository,
	complaints repository.ComplaintRepository,
	mailer mail.Dispatcher,
	logger *zap.Logger,
	cfg config.NotificationConfig,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		accounts:   accounts,
		complaints: complaints,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountActivated, n.handleAccountActivated)
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handleComplaintAssigned)
	n.dispatcher.Subscribe(events.EventComplaintReplied, n.handleComplaintReplied)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
}

func (n *NotificationService) handleAccountActivated(ctx context.Context, event events.Event) error {
	n.logger.Info("AccountActivated", zap.String("account_id", event.SubjectID))

	account, err := n.accounts.FindByID(ctx, event.SubjectID)
	if err != nil {
		n.logger.Warn("activated account not found for welcome email", zap.Error(err))
		return nil
	}
	n.sendEmail(ctx, account.Email, "Welcome",
		fmt.Sprintf("Hi %s, your account is now active.", account.FirstName))
	return nil
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated", zap.String("complaint_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleComplaintAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintAssigned", zap.String("complaint_id", event.SubjectID), zap.Any("payload", event.Payload))

	payload, ok := event.Payload.(events.ComplaintAssignedPayload)
	if ok {
		if assignee, err := n.accounts.FindByID(ctx, payload.AssigneeID); err == nil {
			n.sendEmail(ctx, assignee.Email, "Complaint Assigned",
				fmt.Sprintf("A complaint has been assigned to you (ref %s).", event.SubjectID))
		}
	}
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleComplaintReplied(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintReplied", zap.String("complaint_id", event.SubjectID), zap.Any("payload", event.Payload))

	complaint, err := n.complaints.FindByID(ctx, event.SubjectID)
	if err != nil {
		return nil
	}
	customer, err := n.accounts.FindByID(ctx, complaint.CustomerID)
	if err != nil {
		return nil
	}
	n.sendEmail(ctx, customer.Email, "Your Complaint Has a Reply",
		fmt.Sprintf("Your complaint %q has received a reply.", complaint.Subject))
	return nil
}

func (n *NotificationService) handleComplaintStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintStatusChanged", zap.String("complaint_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmail(ctx context.Context, to, subject, body string) {
	if n.mailer == nil {
		return
	}
	err := n.mailer.Send(ctx, mail.Message{To: to, Subject: subject, Text: body})
	if err != nil {
		n.logger.Warn("notification email not delivered",
			zap.String("to", to), zap.String("subject", subject), zap.Error(err))
	}
}

// TODO: replace the webhook stub with a real HTTP delivery once the
// operations endpoint contract is settled.
func (n *NotificationService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
