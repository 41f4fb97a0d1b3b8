package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend-rfq/internal/costing"
	"github.com/quotedesk/backend-rfq/internal/queue"
	"github.com/quotedesk/backend-rfq/internal/quote"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// stubRow implements pgx.Row over fixed column values.
type stubRow struct {
	vals []any
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *uuid.UUID:
			*d = r.vals[i].(uuid.UUID)
		case *string:
			*d = r.vals[i].(string)
		case *float64:
			*d = r.vals[i].(float64)
		case *[]byte:
			*d = r.vals[i].([]byte)
		case *time.Time:
			*d = r.vals[i].(time.Time)
		default:
			return fmt.Errorf("unexpected scan target %T", d)
		}
	}
	return nil
}

// quoteDB serves a single stored quote and records document updates.
type quoteDB struct {
	mu      sync.Mutex
	stored  *quote.Quote
	updates []rfq.Document
}

func (db *quoteDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected exec")
}

func (db *quoteDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (db *quoteDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.mu.Lock()
	defer db.mu.Unlock()
	switch {
	case strings.HasPrefix(strings.TrimSpace(sql), "SELECT id"):
		if db.stored == nil {
			return stubRow{err: pgx.ErrNoRows}
		}
		return db.row(*db.stored)
	case strings.HasPrefix(strings.TrimSpace(sql), "UPDATE quotes"):
		if db.stored == nil {
			return stubRow{err: pgx.ErrNoRows}
		}
		var doc rfq.Document
		if err := json.Unmarshal(args[1].([]byte), &doc); err != nil {
			return stubRow{err: err}
		}
		db.updates = append(db.updates, doc)
		db.stored.Document = doc
		db.stored.TotalValue = args[2].(float64)
		return db.row(*db.stored)
	}
	return stubRow{err: fmt.Errorf("unexpected sql %q", sql)}
}

func (db *quoteDB) row(q quote.Quote) pgx.Row {
	payload, err := json.Marshal(q.Document)
	if err != nil {
		return stubRow{err: err}
	}
	return stubRow{vals: []any{q.ID, q.Status, q.TotalValue, q.Remark, payload, q.CreatedAt, q.UpdatedAt}}
}

// priceClient replies with a fixed breakdown per item.
type priceClient struct {
	reply func(item costing.RequestItem) (costing.ResponseItem, error)
}

func (c priceClient) Calculate(_ context.Context, item costing.RequestItem) (costing.ResponseItem, error) {
	return c.reply(item)
}

func repriceTask(t *testing.T, id uuid.UUID) *asynq.Task {
	t.Helper()
	task, err := queue.NewRepriceTask(id)
	require.NoError(t, err)
	return task
}

func TestProcessTaskRepricesStoredQuote(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	db := &quoteDB{stored: &quote.Quote{
		ID:     id,
		Status: quote.StatusDraft,
		Document: rfq.Document{Items: []rfq.LineItem{{
			ID:         "1",
			Material:   "C45",
			Quantity:   10,
			Dimensions: rfq.Dimensions{Length: 100, Width: 50, Height: 20},
		}}},
		CreatedAt: now,
		UpdatedAt: now,
	}}

	client := priceClient{reply: func(item costing.RequestItem) (costing.ResponseItem, error) {
		return costing.ResponseItem{
			Status:   "ok",
			CustomID: item.Pos,
			Breakdown: &costing.Breakdown{
				TotalUnitCost:  3.5,
				TotalOrderCost: 35,
				Currency:       "EUR",
			},
		}, nil
	}}

	p := &queue.RepriceProcessor{
		Quotes:       &quote.Service{DB: db},
		Orchestrator: &costing.Orchestrator{Client: client, Logger: zerolog.Nop()},
		Logger:       zerolog.Nop(),
	}

	err := p.ProcessTask(context.Background(), repriceTask(t, id))
	require.NoError(t, err)

	require.Len(t, db.updates, 1)
	merged := db.updates[0].Items[0]
	require.Equal(t, 3.5, merged.Calculation.UnitPrice)
	require.Equal(t, 35.0, merged.Calculation.TotalLineCost)
	require.Equal(t, 35.0, db.stored.TotalValue)
}

func TestProcessTaskMissingQuoteSkipsRetry(t *testing.T) {
	p := &queue.RepriceProcessor{
		Quotes:       &quote.Service{DB: &quoteDB{}},
		Orchestrator: &costing.Orchestrator{Client: priceClient{}, Logger: zerolog.Nop()},
		Logger:       zerolog.Nop(),
	}

	err := p.ProcessTask(context.Background(), repriceTask(t, uuid.New()))
	require.Error(t, err)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTaskBadPayloadSkipsRetry(t *testing.T) {
	p := &queue.RepriceProcessor{Logger: zerolog.Nop()}

	err := p.ProcessTask(context.Background(), asynq.NewTask(queue.TypeReprice, []byte("not json")))
	require.Error(t, err)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTaskNoPriceableItemsSucceeds(t *testing.T) {
	id := uuid.New()
	db := &quoteDB{stored: &quote.Quote{
		ID:     id,
		Status: quote.StatusDraft,
		// Zero dimensions keep the item out of the remote batch.
		Document: rfq.Document{Items: []rfq.LineItem{{ID: "1", Material: "C45", Quantity: 5}}},
	}}
	p := &queue.RepriceProcessor{
		Quotes: &quote.Service{DB: db},
		Orchestrator: &costing.Orchestrator{Client: priceClient{reply: func(costing.RequestItem) (costing.ResponseItem, error) {
			return costing.ResponseItem{}, errors.New("must not be called")
		}}, Logger: zerolog.Nop()},
		Logger: zerolog.Nop(),
	}

	err := p.ProcessTask(context.Background(), repriceTask(t, id))
	require.NoError(t, err)
	require.Empty(t, db.updates, "nothing priceable, nothing written")
}
