package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/pkg/util"
)

// MessagesHandler exposes the complaint thread endpoints.
type MessagesHandler struct {
	complaints *service.ComplaintService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(complaintService *service.ComplaintService) *MessagesHandler {
	return &MessagesHandler{complaints: complaintService}
}

// Post handles POST /api/messages.
func (h *MessagesHandler) Post(c *fiber.Ctx) error {
	principal, ok := auth.AccountFromContext(c)
	if !ok {
		return util.NewUnauthorized()
	}

	var req dto.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("complaintId", req.ComplaintID, "text", req.Text); err != nil {
		return err
	}

	message, err := h.complaints.PostMessage(c.Context(), principal.ID, req.ComplaintID, req.Text)
	switch {
	case errors.Is(err, service.ErrComplaintNotFound):
		return util.NewNotFound("Complaint")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		envelope("Message posted", dto.NewMessageResponse(message)))
}

// ListByComplaint handles GET /api/messages/:complaintId.
func (h *MessagesHandler) ListByComplaint(c *fiber.Ctx) error {
	complaintID := c.Params("complaintId")
	if complaintID == "" {
		return util.NewValidationError("Missing required fields: complaintId")
	}

	messages, err := h.complaints.ListMessages(c.Context(), complaintID)
	switch {
	case errors.Is(err, service.ErrComplaintNotFound):
		return util.NewNotFound("Complaint")
	case err != nil:
		return util.NewInternalError(err)
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, dto.NewMessageResponse(&messages[i]))
	}
	return c.JSON(envelope("Messages retrieved", out))
}
