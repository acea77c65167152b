package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/mail"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

var staffRoles = []domain.Role{domain.RoleVisconAdmin, domain.RoleVisconEmployee}

// NotificationService turns domain events into in-app notifications and
// emails, and serves the caller's notification inbox.
type NotificationService struct {
	dispatcher    events.Dispatcher
	notifications repository.NotificationRepository
	users         repository.UserRepository
	mailer        mail.Sender
	logger        *zap.Logger
	cfg           config.NotificationConfig
	now           func() time.Time
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher       events.Dispatcher
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Mailer           mail.Sender
	Logger           *zap.Logger
	Config           config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	n := &NotificationService{
		dispatcher:    deps.Dispatcher,
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		mailer:        deps.Mailer,
		logger:        deps.Logger,
		cfg:           deps.Config,
		now:           time.Now,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if n.mailer == nil {
		n.mailer = mail.NopSender{}
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketSolutionAdded, n.handleTicketSolutionAdded)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID), zap.Int("ticket_number", payload.TicketNumber))

	staff, err := n.users.ListByRoles(ctx, staffRoles, true)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("New ticket #%d from %s for %s.", payload.TicketNumber, payload.CompanyName, payload.MachineName)
	recipients := make([]string, 0, len(staff))
	for _, user := range staff {
		if err := n.notify(ctx, user.ID, message); err != nil {
			return err
		}
		recipients = append(recipients, user.Email)
	}

	n.sendTicketCreatedEmail(ctx, event.TicketID, payload, recipients)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("TicketStatusChanged",
		zap.String("ticket_id", event.TicketID),
		zap.String("old_status", payload.OldStatus.String()),
		zap.String("new_status", payload.NewStatus.String()))

	if payload.CreatorID == event.ActorUserID {
		return nil
	}
	message := fmt.Sprintf("Ticket #%d is now %s.", payload.TicketNumber, payload.NewStatus)
	return n.notify(ctx, payload.CreatorID, message)
}

func (n *NotificationService) handleTicketSolutionAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketSolutionAddedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("TicketSolutionAdded", zap.String("ticket_id", event.TicketID))

	if payload.CreatorID == event.ActorUserID {
		return nil
	}
	message := fmt.Sprintf("A solution was added to ticket #%d.", payload.TicketNumber)
	return n.notify(ctx, payload.CreatorID, message)
}

func (n *NotificationService) notify(ctx context.Context, userID, message string) error {
	return n.notifications.Create(ctx, &domain.Notification{
		Message:   message,
		CreatedAt: n.now().UTC(),
		UserID:    userID,
	})
}

// sendTicketCreatedEmail is best effort: delivery failures are logged only.
func (n *NotificationService) sendTicketCreatedEmail(ctx context.Context, ticketID string, payload events.TicketCreatedPayload, recipients []string) {
	if !n.cfg.MailEnabled() || len(recipients) == 0 {
		return
	}

	link := fmt.Sprintf("%s/tickets/%s", n.cfg.AppBaseURL, ticketID)
	subject := fmt.Sprintf("New ticket #%d: %s", payload.TicketNumber, payload.MachineName)
	plain := fmt.Sprintf("%s filed ticket #%d for %s (priority %s).\n\n%s\n\n%s\n",
		payload.CompanyName, payload.TicketNumber, payload.MachineName, payload.Priority, payload.Issue, link)
	htmlBody := fmt.Sprintf(`<html><body>
<h2>Ticket #%d</h2>
<p>%s filed a ticket for %s (priority %s).</p>
<blockquote>%s</blockquote>
<p><a href="%s">Open ticket</a></p>
</body></html>`,
		payload.TicketNumber,
		html.EscapeString(payload.CompanyName),
		html.EscapeString(payload.MachineName),
		payload.Priority,
		html.EscapeString(payload.Issue),
		link)

	err := n.mailer.Send(ctx, mail.Message{
		To:        recipients,
		Subject:   subject,
		PlainBody: plain,
		HTMLBody:  htmlBody,
	})
	if err != nil {
		n.logger.Warn("ticket created email failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}

// ListMine returns the caller's newest notifications.
func (n *NotificationService) ListMine(ctx context.Context, identity domain.Identity) ([]domain.Notification, error) {
	caller, err := resolveUser(ctx, n.users, n.logger, identity, msgUserNotFound)
	if err != nil {
		return nil, err
	}
	items, err := n.notifications.ListByUser(ctx, caller.ID, 50)
	if err != nil {
		return nil, n.failure("list", "Unable to get notifications.", err)
	}
	return items, nil
}

// CountUnread returns the number of unread notifications of the caller.
func (n *NotificationService) CountUnread(ctx context.Context, identity domain.Identity) (int, error) {
	caller, err := resolveUser(ctx, n.users, n.logger, identity, msgUserNotFound)
	if err != nil {
		return 0, err
	}
	count, err := n.notifications.CountUnread(ctx, caller.ID)
	if err != nil {
		return 0, n.failure("unread", "Unable to count notifications.", err)
	}
	return count, nil
}

// MarkRead marks one of the caller's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, identity domain.Identity, id string) (*domain.Notification, error) {
	caller, err := resolveUser(ctx, n.users, n.logger, identity, msgUserNotFound)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, apperrors.NewNotFound("Notification not found.", nil)
	}
	item, err := n.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Notification not found.", nil)
		}
		return nil, n.failure("mark_read", "Unable to update notification.", err)
	}
	if item.UserID != caller.ID {
		return nil, apperrors.NewNotFound("Notification not found.", nil)
	}
	if err := n.notifications.MarkRead(ctx, id); err != nil {
		return nil, n.failure("mark_read", "Unable to update notification.", err)
	}
	item.IsRead = true
	return item, nil
}

func (n *NotificationService) failure(operation, message string, err error) error {
	n.logger.Error("notification operation failed", zap.String("operation", operation), zap.Error(err))
	return apperrors.NewPersistenceFailure(message, err)
}
