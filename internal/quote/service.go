package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// ErrQuoteNotFound is returned when the quote id does not exist.
var ErrQuoteNotFound = errors.New("quote not found")

// Statuses a saved quote can be in.
const (
	StatusDraft    = "Draft"
	StatusWIP      = "WIP"
	StatusReview   = "In Review"
	StatusApproved = "Approved"
	StatusSent     = "Sent"
	StatusOnHold   = "On Hold"
)

// ValidStatus reports whether the provided status is one of the known states.
func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusWIP, StatusReview, StatusApproved, StatusSent, StatusOnHold:
		return true
	}
	return false
}

// Quote is a persisted RFQ document with workflow metadata.
type Quote struct {
	ID         uuid.UUID    `json:"id"`
	Status     string       `json:"status"`
	TotalValue float64      `json:"total_value"`
	Remark     string       `json:"remark,omitempty"`
	Document   rfq.Document `json:"document"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Querier is the subset of pgxpool.Pool the service relies on.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service persists quotes in Postgres. Documents are stored as JSONB so the
// canonical line-item shape stays the single source of truth.
type Service struct {
	DB Querier
}

// Create stores a new quote and returns it with generated metadata.
func (s *Service) Create(ctx context.Context, status, remark string, doc rfq.Document) (Quote, error) {
	if status == "" {
		status = StatusDraft
	}
	if !ValidStatus(status) {
		return Quote{}, fmt.Errorf("quote: invalid status %q", status)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return Quote{}, fmt.Errorf("quote: encode document: %w", err)
	}
	q := Quote{
		ID:         uuid.New(),
		Status:     status,
		TotalValue: TotalValue(doc),
		Remark:     remark,
		Document:   doc,
	}
	row := s.DB.QueryRow(ctx, `
		INSERT INTO quotes (id, status, total_value, remark, document)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		q.ID, q.Status, q.TotalValue, q.Remark, payload)
	if err := row.Scan(&q.CreatedAt, &q.UpdatedAt); err != nil {
		return Quote{}, fmt.Errorf("quote: insert: %w", err)
	}
	return q, nil
}

// Get loads one quote by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Quote, error) {
	row := s.DB.QueryRow(ctx, `
		SELECT id, status, total_value, remark, document, created_at, updated_at
		FROM quotes WHERE id = $1`, id)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, ErrQuoteNotFound
		}
		return Quote{}, err
	}
	return q, nil
}

// List returns quotes ordered by last update, newest first.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Quote, int64, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	var total int64
	if err := s.DB.QueryRow(ctx, `SELECT count(*) FROM quotes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("quote: count: %w", err)
	}

	rows, err := s.DB.Query(ctx, `
		SELECT id, status, total_value, remark, document, created_at, updated_at
		FROM quotes ORDER BY updated_at DESC LIMIT $1 OFFSET $2`, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("quote: list: %w", err)
	}
	defer rows.Close()

	quotes := make([]Quote, 0, perPage)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, q)
	}
	return quotes, total, rows.Err()
}

// UpdateDocument replaces the quote's document, recomputing the total value.
// Used after a reprice run merges fresh remote results.
func (s *Service) UpdateDocument(ctx context.Context, id uuid.UUID, doc rfq.Document) (Quote, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return Quote{}, fmt.Errorf("quote: encode document: %w", err)
	}
	row := s.DB.QueryRow(ctx, `
		UPDATE quotes
		SET document = $2, total_value = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, status, total_value, remark, document, created_at, updated_at`,
		id, payload, TotalValue(doc))
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, ErrQuoteNotFound
		}
		return Quote{}, err
	}
	return q, nil
}

// UpdateStatus transitions the quote's workflow state.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Quote, error) {
	if !ValidStatus(status) {
		return Quote{}, fmt.Errorf("quote: invalid status %q", status)
	}
	row := s.DB.QueryRow(ctx, `
		UPDATE quotes SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, status, total_value, remark, document, created_at, updated_at`,
		id, status)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, ErrQuoteNotFound
		}
		return Quote{}, err
	}
	return q, nil
}

// Delete removes a quote.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("quote: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

// TotalValue sums the line totals of a document.
func TotalValue(doc rfq.Document) float64 {
	var total float64
	for _, item := range doc.Items {
		total += item.Calculation.TotalLineCost
	}
	return total
}

func scanQuote(row pgx.Row) (Quote, error) {
	var (
		q       Quote
		payload []byte
	)
	if err := row.Scan(&q.ID, &q.Status, &q.TotalValue, &q.Remark, &payload, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return Quote{}, err
	}
	if err := json.Unmarshal(payload, &q.Document); err != nil {
		return Quote{}, fmt.Errorf("quote: decode document: %w", err)
	}
	return q, nil
}
