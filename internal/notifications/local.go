package notifications

import (
	"context"
	"errors"
	"sync"

	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// ErrQueueFull is returned when the in-process queue cannot accept another invitation
var ErrQueueFull = errors.New("notification queue is full")

// ErrQueueClosed is returned after Close
var ErrQueueClosed = errors.New("notification queue is closed")

// LocalQueue delivers invitations from a buffered channel on one worker goroutine.
// Failed sends are logged and not retried.
type LocalQueue struct {
	jobs   chan models.Invitation
	sender Sender
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewLocalQueue creates the queue and starts its worker
func NewLocalQueue(sender Sender, size int, logger *zap.Logger) *LocalQueue {
	if size <= 0 {
		size = 1
	}
	q := &LocalQueue{
		jobs:   make(chan models.Invitation, size),
		sender: sender,
		logger: logger,
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *LocalQueue) run() {
	defer close(q.done)
	for inv := range q.jobs {
		if err := q.sender.Send(context.Background(), inv); err != nil {
			q.logger.Error("Failed to send invitation email", zap.String("email", inv.Email), zap.Error(err))
		}
	}
}

// Enqueue hands the invitation to the worker without waiting for delivery
func (q *LocalQueue) Enqueue(ctx context.Context, inv models.Invitation) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- inv:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting invitations and waits until the queued ones are delivered
func (q *LocalQueue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	<-q.done
	return nil
}
