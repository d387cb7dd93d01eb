package dto

import "github.com/spec-kit/complaint-service/internal/domain"

// ChangeRoleRequest payload for role reassignment.
type ChangeRoleRequest struct {
	NewRole domain.Role `json:"newRole"`
}
