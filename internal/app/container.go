// Package app assembles services and handlers from a repository set.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/mail"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/render"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/worker"
)

// Container holds the wired services.
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	Repos         repository.Set
	Policy        *auth.Policy
	Tokens        *auth.TokenManager
	Dispatcher    events.Dispatcher
	Auth          *service.AuthService
	Tickets       *service.TicketService
	Companies     *service.CompanyService
	Machines      *service.MachineService
	Users         *service.UserService
	Notifications *service.NotificationService

	mailQueue *worker.MailQueue
}

// Options overrides collaborators, mainly for tests.
type Options struct {
	Mailer mail.Sender
	Now    func() time.Time
}

// NewContainer wires every service on top of repos.
func NewContainer(cfg *config.Config, repos repository.Set, logger *zap.Logger, opts Options) (*Container, error) {
	policy, err := auth.NewPolicy()
	if err != nil {
		return nil, err
	}

	var mailQueue *worker.MailQueue
	mailer := opts.Mailer
	if mailer == nil {
		if cfg.Notification.MailEnabled() {
			mailQueue = worker.NewMailQueue(mail.NewSMTPSender(cfg.Notification), logger, 64)
			mailer = mailQueue
		} else {
			mailer = mail.NopSender{}
		}
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	if opts.Now != nil {
		tokens.WithClock(opts.Now)
	}
	renderer := render.NewRenderer()
	dispatcher := events.NewInMemoryDispatcher(logger)

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
		Repos:      repos,
		Policy:     policy,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		mailQueue:  mailQueue,
	}

	c.Auth = service.NewAuthService(service.AuthDependencies{
		UserRepo:     repos.Users,
		CompanyRepo:  repos.Companies,
		Denylist:     repos.Denylist,
		TokenManager: tokens,
		Policy:       policy,
		Logger:       logger,
	})
	c.Tickets = service.NewTicketService(service.TicketDependencies{
		TicketRepo:  repos.Tickets,
		UserRepo:    repos.Users,
		MachineRepo: repos.Machines,
		Policy:      policy,
		Dispatcher:  dispatcher,
		Logger:      logger,
		PageSize:    cfg.Tickets.PageSize,
		Now:         opts.Now,
	})
	c.Companies = service.NewCompanyService(repos.Companies, repos.Users, policy, logger)
	c.Machines = service.NewMachineService(service.MachineDependencies{
		MachineRepo:  repos.Machines,
		CompanyRepo:  repos.Companies,
		SolutionRepo: repos.Solutions,
		UserRepo:     repos.Users,
		Policy:       policy,
		Renderer:     renderer,
		Logger:       logger,
	})
	c.Users = service.NewUserService(repos.Users, policy, logger)
	c.Notifications = service.NewNotificationService(service.NotificationDependencies{
		Dispatcher:       dispatcher,
		NotificationRepo: repos.Notifications,
		UserRepo:         repos.Users,
		Mailer:           mailer,
		Logger:           logger,
		Config:           cfg.Notification,
	})
	worker.StartNotificationWorker(c.Notifications)

	return c, nil
}

// RouteConfig builds the HTTP handlers. Readiness checks the given
// dependencies.
func (c *Container) RouteConfig(dependencies map[string]handlers.Pinger) httptransport.RouteConfig {
	return httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(c.Config.App.Name, c.Config.App.Version, dependencies, c.Metrics),
		Auth:           handlers.NewAuthHandler(c.Auth),
		Tickets:        handlers.NewTicketsHandler(c.Tickets),
		Companies:      handlers.NewCompaniesHandler(c.Companies),
		Machines:       handlers.NewMachinesHandler(c.Machines),
		Notifications:  handlers.NewNotificationsHandler(c.Notifications),
		Users:          handlers.NewUsersHandler(c.Users),
		AuthMiddleware: auth.NewAuthMiddleware(c.Tokens, c.Repos.Denylist, c.Repos.Users),
		Policy:         c.Policy,
	}
}

// Close flushes queued email.
func (c *Container) Close(ctx context.Context) error {
	if c.mailQueue == nil {
		return nil
	}
	return c.mailQueue.Close(ctx)
}
