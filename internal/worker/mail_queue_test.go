package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/mail"
)

type blockingSender struct {
	release chan struct{}

	mu   sync.Mutex
	sent []string
	fail bool
}

func (s *blockingSender) Send(_ context.Context, msg mail.Message) error {
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg.Subject)
	if s.fail {
		return errors.New("smtp down")
	}
	return nil
}

func (s *blockingSender) subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.sent...)
}

func TestMailQueueDoesNotWaitForDelivery(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{})}
	q := NewMailQueue(sender, zap.NewNop(), 4)

	start := time.Now()
	require.NoError(t, q.Send(context.Background(), mail.Message{Subject: "one"}))
	require.NoError(t, q.Send(context.Background(), mail.Message{Subject: "two"}))
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, sender.subjects())

	close(sender.release)
	require.NoError(t, q.Close(context.Background()))
	assert.Equal(t, []string{"one", "two"}, sender.subjects())

	assert.ErrorIs(t, q.Send(context.Background(), mail.Message{Subject: "late"}), ErrMailQueueClosed)
	require.NoError(t, q.Close(context.Background()))
}

func TestMailQueueFull(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{})}
	q := NewMailQueue(sender, zap.NewNop(), 1)

	// the first message may already be held by the delivery goroutine
	var full bool
	for i := 0; i < 3; i++ {
		if errors.Is(q.Send(context.Background(), mail.Message{Subject: "x"}), ErrMailQueueFull) {
			full = true
		}
	}
	assert.True(t, full)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Close(ctx), context.DeadlineExceeded)

	close(sender.release)
	require.NoError(t, q.Close(context.Background()))
}

func TestMailQueueLogsFailures(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{}), fail: true}
	close(sender.release)
	q := NewMailQueue(sender, zap.NewNop(), 2)

	require.NoError(t, q.Send(context.Background(), mail.Message{Subject: "boom"}))
	require.NoError(t, q.Close(context.Background()))
	assert.Equal(t, []string{"boom"}, sender.subjects())
}
