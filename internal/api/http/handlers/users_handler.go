package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/pkg/util"
)

// UsersHandler exposes account administration endpoints.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accountService *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accountService}
}

// GetByID handles GET /api/users/read-by-id/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return util.NewValidationError("Missing required fields: id")
	}

	account, err := h.accounts.GetByID(c.Context(), id)
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		return util.NewNotFound("User")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.JSON(envelope("User retrieved", dto.NewAccountResponse(account)))
}

// ChangeRole handles PATCH /api/users/:id/role.
func (h *UsersHandler) ChangeRole(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("id", id, "newRole", string(req.NewRole)); err != nil {
		return err
	}

	account, err := h.accounts.ChangeRole(c.Context(), id, req.NewRole)
	switch {
	case errors.Is(err, service.ErrInvalidRole):
		return util.NewValidationError("Invalid role")
	case errors.Is(err, service.ErrAccountNotFound):
		return util.NewNotFound("User")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.JSON(envelope("Role updated", dto.NewAccountResponse(account)))
}
