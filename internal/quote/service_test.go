package quote_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend-rfq/internal/quote"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// staticDB answers every query with a fixed outcome.
type staticDB struct {
	execTag pgconn.CommandTag
	rowErr  error
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func (db staticDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return db.execTag, nil
}

func (db staticDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, db.rowErr
}

func (db staticDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: db.rowErr}
}

func TestServiceGetNotFound(t *testing.T) {
	svc := &quote.Service{DB: staticDB{rowErr: pgx.ErrNoRows}}
	_, err := svc.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, quote.ErrQuoteNotFound)
}

func TestServiceUpdateDocumentNotFound(t *testing.T) {
	svc := &quote.Service{DB: staticDB{rowErr: pgx.ErrNoRows}}
	_, err := svc.UpdateDocument(context.Background(), uuid.New(), rfq.Document{})
	require.ErrorIs(t, err, quote.ErrQuoteNotFound)
}

func TestServiceDeleteNotFound(t *testing.T) {
	svc := &quote.Service{DB: staticDB{execTag: pgconn.NewCommandTag("DELETE 0")}}
	err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, quote.ErrQuoteNotFound)
}

func TestServiceCreateRejectsUnknownStatus(t *testing.T) {
	svc := &quote.Service{DB: staticDB{}}
	_, err := svc.Create(context.Background(), "Archived", "", rfq.Document{})
	require.Error(t, err)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		quote.StatusDraft, quote.StatusWIP, quote.StatusReview,
		quote.StatusApproved, quote.StatusSent, quote.StatusOnHold,
	} {
		require.True(t, quote.ValidStatus(s), "status %q", s)
	}
	require.False(t, quote.ValidStatus(""))
	require.False(t, quote.ValidStatus("draft"), "statuses are case sensitive")
	require.False(t, quote.ValidStatus("Archived"))
}

func TestTotalValue(t *testing.T) {
	doc := rfq.Document{Items: []rfq.LineItem{
		{Calculation: rfq.CalculationResult{TotalLineCost: 11.775}},
		{Calculation: rfq.CalculationResult{TotalLineCost: 42}},
		{}, // unpriced item contributes nothing
	}}
	require.InDelta(t, 53.775, quote.TotalValue(doc), 1e-9)
	require.Zero(t, quote.TotalValue(rfq.Document{}))
}
