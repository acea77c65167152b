package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Companies      *handlers.CompaniesHandler
	Machines       *handlers.MachinesHandler
	Notifications  *handlers.NotificationsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Policy         *auth.Policy
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	authGroup := protected.Group("/auth")
	authGroup.Post("/register", auth.RequireCapability(cfg.Policy, auth.CapRegisterAnyUser, auth.CapRegisterOwnUsers), cfg.Auth.Register)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Auth.Me)
	authGroup.Post("/password", cfg.Auth.ChangePassword)

	tickets := protected.Group("/ticket")
	tickets.Post("/CreateTicket", cfg.Tickets.CreateTicket)
	tickets.Get("/GetTicket/:id", cfg.Tickets.GetTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/total", cfg.Tickets.Total)
	tickets.Get("/total/user", cfg.Tickets.TotalByUser)
	tickets.Get("/total/week", cfg.Tickets.TotalThisWeek)
	tickets.Post("/claim", cfg.Tickets.Claim)
	tickets.Post("/unclaim", cfg.Tickets.Unclaim)
	tickets.Post("/resolve", cfg.Tickets.Resolve)
	tickets.Post("/reopen", cfg.Tickets.Reopen)
	tickets.Post("/cancel", cfg.Tickets.Cancel)
	tickets.Post("/solution", cfg.Tickets.AddSolution)

	companies := protected.Group("/company")
	companies.Get("/", cfg.Companies.List)
	companies.Get("/mine", cfg.Companies.Mine)
	companies.Post("/", auth.RequireCapability(cfg.Policy, auth.CapManageCompanies), cfg.Companies.Create)
	companies.Post("/:id/toggle", auth.RequireCapability(cfg.Policy, auth.CapManageCompanies), cfg.Companies.Toggle)

	machines := protected.Group("/machine")
	machines.Get("/", cfg.Machines.List)
	machines.Post("/", auth.RequireCapability(cfg.Policy, auth.CapManageMachines), cfg.Machines.Create)
	machines.Get("/company", cfg.Machines.Mine)
	machines.Get("/company/:companyId", cfg.Machines.ByCompany)
	machines.Post("/company", auth.RequireCapability(cfg.Policy, auth.CapManageMachines), cfg.Machines.Link)
	machines.Get("/:id/solutions", cfg.Machines.Solutions)
	protected.Post("/solution", cfg.Machines.CreateSolution)

	notifications := protected.Group("/notification")
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread", cfg.Notifications.Unread)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	users := protected.Group("/user")
	users.Get("/", cfg.Users.List)
	users.Get("/company/:companyId", cfg.Users.List)
	users.Post("/:id/toggle", cfg.Users.Toggle)
}
