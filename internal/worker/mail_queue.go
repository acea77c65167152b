package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/mail"
)

var (
	ErrMailQueueFull   = errors.New("mail queue is full")
	ErrMailQueueClosed = errors.New("mail queue is closed")
)

// MailQueue hands messages to a background goroutine so callers never wait
// on the SMTP server. Delivery failures are logged, not returned.
type MailQueue struct {
	sender mail.Sender
	logger *zap.Logger
	jobs   chan mail.Message
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewMailQueue starts the delivery goroutine. size bounds the number of
// pending messages.
func NewMailQueue(sender mail.Sender, logger *zap.Logger, size int) *MailQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 64
	}
	q := &MailQueue{
		sender: sender,
		logger: logger,
		jobs:   make(chan mail.Message, size),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

// Send enqueues msg and returns immediately.
func (q *MailQueue) Send(_ context.Context, msg mail.Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrMailQueueClosed
	}
	select {
	case q.jobs <- msg:
		return nil
	default:
		return ErrMailQueueFull
	}
}

// Close stops accepting messages and waits until the pending ones are
// delivered or ctx expires.
func (q *MailQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MailQueue) run() {
	defer close(q.done)
	for msg := range q.jobs {
		if err := q.sender.Send(context.Background(), msg); err != nil {
			q.logger.Warn("email delivery failed",
				zap.String("subject", msg.Subject),
				zap.Int("recipients", len(msg.To)),
				zap.Error(err))
		}
	}
}
