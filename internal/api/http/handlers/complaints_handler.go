package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler exposes the complaint lifecycle endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService}
}

func toCreateInput(req dto.CreateComplaintRequest) service.CreateComplaintInput {
	return service.CreateComplaintInput{
		Subject:            req.Subject,
		ComplaintAgainst:   req.ComplaintAgainst,
		Description:        req.Description,
		Priority:           req.Priority,
		Attachments:        req.Attachments,
		TermsAndConditions: req.TermsAndConditions,
	}
}

// Create handles POST /api/complaints/create.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.AccountFromContext(c)
	if !ok {
		return util.NewUnauthorized()
	}

	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("subject", req.Subject, "description", req.Description); err != nil {
		return err
	}
	if !req.TermsAndConditions {
		return util.NewValidationError("Terms and conditions must be accepted")
	}

	complaint, err := h.complaints.Create(c.Context(), principal.ID, toCreateInput(req))
	switch {
	case errors.Is(err, service.ErrInvalidPriority):
		return util.NewValidationError("Invalid priority")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		envelope("Complaint created", dto.NewComplaintResponse(complaint)))
}

// BulkCreate handles POST /api/complaints/bulk-upload.
func (h *ComplaintsHandler) BulkCreate(c *fiber.Ctx) error {
	principal, ok := auth.AccountFromContext(c)
	if !ok {
		return util.NewUnauthorized()
	}

	var req dto.BulkCreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if len(req.Complaints) == 0 {
		return util.NewValidationError("Missing required fields: complaints")
	}

	inputs := make([]service.CreateComplaintInput, 0, len(req.Complaints))
	for _, item := range req.Complaints {
		if err := missingFields("subject", item.Subject, "description", item.Description); err != nil {
			return err
		}
		inputs = append(inputs, toCreateInput(item))
	}

	complaints, err := h.complaints.BulkCreate(c.Context(), principal.ID, inputs)
	switch {
	case errors.Is(err, service.ErrInvalidPriority):
		return util.NewValidationError("Invalid priority")
	case err != nil:
		return util.NewInternalError(err)
	}

	out := make([]dto.ComplaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		out = append(out, dto.NewComplaintResponse(complaint))
	}
	return c.Status(fiber.StatusCreated).JSON(envelope("Complaints created", out))
}

// List handles GET /api/complaints/read. Visibility is role-scoped:
// customers get their own complaints, officers their assignments,
// admins everything.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.AccountFromContext(c)
	if !ok {
		return util.NewUnauthorized()
	}

	complaints, err := h.complaints.ListFor(c.Context(), principal)
	if err != nil {
		return util.NewInternalError(err)
	}
	return c.JSON(envelope("Complaints retrieved", dto.NewComplaintResponses(complaints)))
}

// GetByID handles GET /api/complaints/read-by-id/:id.
func (h *ComplaintsHandler) GetByID(c *fiber.Ctx) error {
	complaint, err := h.complaints.GetByID(c.Context(), c.Params("id"))
	switch {
	case errors.Is(err, service.ErrComplaintNotFound):
		return util.NewNotFound("Complaint")
	case err != nil:
		return util.NewInternalError(err)
	}
	return c.JSON(envelope("Complaint retrieved", dto.NewComplaintResponse(complaint)))
}

// Update handles PATCH /api/complaints/:id.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.AccountFromContext(c)
	if !ok {
		return util.NewUnauthorized()
	}

	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}

	complaint, err := h.complaints.Update(c.Context(), principal.ID, c.Params("id"), service.UpdateComplaintInput{
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	switch {
	case errors.Is(err, service.ErrComplaintNotFound):
		return util.NewNotFound("Complaint")
	case errors.Is(err, service.ErrInvalidStatus):
		return util.NewValidationError("Invalid status")
	case errors.Is(err, service.ErrInvalidPriority):
		return util.NewValidationError("Invalid priority")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.JSON(envelope("Complaint updated", dto.NewComplaintResponse(complaint)))
}

// Delete handles DELETE /api/complaints/delete/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	complaint, err := h.complaints.SoftDelete(c.Context(), c.Params("id"))
	switch {
	case errors.Is(err, service.ErrComplaintNotFound):
		return util.NewNotFound("Complaint")
	case err != nil:
		return util.NewInternalError(err)
	}
	return c.JSON(envelope("Complaint deleted", dto.NewComplaintResponse(complaint)))
}

// Assign handles PATCH /api/complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.AccountFromContext(c)
	if !ok {
		return util.NewUnauthorized()
	}

	var req dto.AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("assigneeId", req.AssigneeID); err != nil {
		return err
	}

	complaint, err := h.complaints.Assign(c.Context(), principal.ID, c.Params("id"), req.AssigneeID, req.Note)
	switch {
	case errors.Is(err, service.ErrComplaintNotFound):
		return util.NewNotFound("Complaint")
	case errors.Is(err, service.ErrAssigneeNotFound):
		return util.NewNotFound("Assignee")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.JSON(envelope("Complaint assigned", dto.NewComplaintResponse(complaint)))
}

// Reply handles POST /api/complaints/:id/reply.
func (h *ComplaintsHandler) Reply(c *fiber.Ctx) error {
	principal, ok := auth.AccountFromContext(c)
	if !ok {
		return util.NewUnauthorized()
	}

	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("text", req.Text); err != nil {
		return err
	}

	message, err := h.complaints.Reply(c.Context(), principal.ID, c.Params("id"), req.Text)
	switch {
	case errors.Is(err, service.ErrComplaintNotFound):
		return util.NewNotFound("Complaint")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		envelope("Reply posted", dto.NewMessageResponse(message)))
}

// AddInternalNote handles POST /api/complaints/:id/internal-note.
func (h *ComplaintsHandler) AddInternalNote(c *fiber.Ctx) error {
	principal, ok := auth.AccountFromContext(c)
	if !ok {
		return util.NewUnauthorized()
	}

	var req dto.InternalNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("note", req.Note); err != nil {
		return err
	}

	note, err := h.complaints.AddInternalNote(c.Context(), principal.ID, c.Params("id"), req.Note)
	switch {
	case errors.Is(err, service.ErrComplaintNotFound):
		return util.NewNotFound("Complaint")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		envelope("Internal note added", dto.NewNoteResponse(note)))
}
