// Package queue defines the background task surface of the service. Tasks are
// carried by asynq over the same Redis instance the pricebook lives in.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeReprice re-runs the remote cost pipeline for a saved quote.
const TypeReprice = "rfq:reprice"

// RepricePayload identifies the quote a reprice task operates on.
type RepricePayload struct {
	QuoteID uuid.UUID `json:"quote_id"`
}

// NewRepriceTask builds an asynq task for the given quote.
func NewRepriceTask(quoteID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(RepricePayload{QuoteID: quoteID})
	if err != nil {
		return nil, fmt.Errorf("queue: encode reprice payload: %w", err)
	}
	return asynq.NewTask(TypeReprice, payload, asynq.MaxRetry(3)), nil
}

// Client enqueues tasks for the worker process.
type Client struct {
	Tasks *asynq.Client
	// TaskTimeout bounds how long the worker may spend on one reprice run.
	TaskTimeout time.Duration
}

// EnqueueReprice schedules a reprice run and returns the task id.
func (c *Client) EnqueueReprice(ctx context.Context, quoteID uuid.UUID) (string, error) {
	task, err := NewRepriceTask(quoteID)
	if err != nil {
		return "", err
	}
	// TaskID makes repeated reprice requests for the same quote idempotent
	// while one is still pending.
	id := "reprice:" + quoteID.String()
	opts := []asynq.Option{asynq.TaskID(id)}
	if c.TaskTimeout > 0 {
		opts = append(opts, asynq.Timeout(c.TaskTimeout))
	}
	info, err := c.Tasks.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("queue: enqueue reprice: %w", err)
	}
	return info.ID, nil
}
