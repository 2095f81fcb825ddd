package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/mediarating/backend/internal/models"
	"go.uber.org/zap"
)

// TypeInvitationEmail is the asynq task type of invitation emails
const TypeInvitationEmail = "email:invitation"

// NewInvitationTask builds the asynq task for an invitation
func NewInvitationTask(inv models.Invitation) (*asynq.Task, error) {
	payload, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invitation: %w", err)
	}
	return asynq.NewTask(TypeInvitationEmail, payload, asynq.MaxRetry(0)), nil
}

// AsynqQueue enqueues invitations into Redis for cmd/worker to deliver
type AsynqQueue struct {
	client *asynq.Client
}

// NewAsynqQueue creates a new asynq backed queue
func NewAsynqQueue(client *asynq.Client) *AsynqQueue {
	return &AsynqQueue{
		client: client,
	}
}

// Enqueue adds the invitation to the default queue
func (q *AsynqQueue) Enqueue(ctx context.Context, inv models.Invitation) error {
	task, err := NewInvitationTask(inv)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue invitation: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (q *AsynqQueue) Close() error {
	return q.client.Close()
}

// InvitationHandler processes invitation tasks in the worker
type InvitationHandler struct {
	sender Sender
	logger *zap.Logger
}

// NewInvitationHandler creates a new invitation task handler
func NewInvitationHandler(sender Sender, logger *zap.Logger) *InvitationHandler {
	return &InvitationHandler{
		sender: sender,
		logger: logger,
	}
}

// ProcessTask implements asynq.Handler
func (h *InvitationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var inv models.Invitation
	if err := json.Unmarshal(t.Payload(), &inv); err != nil {
		return fmt.Errorf("failed to parse invitation payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.sender.Send(ctx, inv); err != nil {
		h.logger.Error("Failed to send invitation email", zap.String("email", inv.Email), zap.Error(err))
		return err
	}

	return nil
}
