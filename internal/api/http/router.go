package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	Messages       *handlers.MessagesHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyOTP)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/google", cfg.Auth.LoginWithGoogle)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)

	users := api.Group("/users", cfg.AuthMiddleware.Authenticate)
	users.Get("/read-by-id/:id", cfg.Users.GetByID)
	users.Patch("/:id/role",
		auth.RequireRoles(domain.RoleAdmin, domain.RoleSuperadmin), cfg.Users.ChangeRole)

	complaints := api.Group("/complaints", cfg.AuthMiddleware.Authenticate)
	complaints.Post("/create",
		auth.RequireRoles(domain.RoleCustomer), cfg.Complaints.Create)
	complaints.Post("/bulk-upload",
		auth.RequireRoles(domain.RoleCustomer), cfg.Complaints.BulkCreate)
	complaints.Get("/read", cfg.Complaints.List)
	complaints.Get("/read-by-id/:id",
		auth.RequireRoles(domain.RoleOfficer, domain.RoleAdmin, domain.RoleSuperadmin), cfg.Complaints.GetByID)
	complaints.Patch("/:id/assign",
		auth.RequireRoles(domain.RoleOfficer, domain.RoleAdmin, domain.RoleSuperadmin), cfg.Complaints.Assign)
	complaints.Post("/:id/reply",
		auth.RequireRoles(domain.RoleOfficer), cfg.Complaints.Reply)
	complaints.Post("/:id/internal-note",
		auth.RequireRoles(domain.RoleOfficer, domain.RoleAdmin), cfg.Complaints.AddInternalNote)
	complaints.Patch("/:id",
		auth.RequireRoles(domain.RoleOfficer, domain.RoleAdmin, domain.RoleSuperadmin), cfg.Complaints.Update)
	complaints.Delete("/delete/:id",
		auth.RequireRoles(domain.RoleOfficer, domain.RoleAdmin, domain.RoleSuperadmin), cfg.Complaints.Delete)

	messages := api.Group("/messages", cfg.AuthMiddleware.Authenticate)
	messages.Post("/", cfg.Messages.Post)
	messages.Get("/:complaintId", cfg.Messages.ListByComplaint)

	reports := api.Group("/report", cfg.AuthMiddleware.Authenticate,
		auth.RequireRoles(domain.RoleAdmin, domain.RoleSuperadmin))
	reports.Get("/report/:type", cfg.Reports.Generate)
	reports.Get("/summary", cfg.Reports.Summary)
	reports.Get("/export/:type", cfg.Reports.Export)
}
