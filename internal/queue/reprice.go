package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/quotedesk/backend-rfq/internal/costing"
	"github.com/quotedesk/backend-rfq/internal/lock"
	"github.com/quotedesk/backend-rfq/internal/obs"
	"github.com/quotedesk/backend-rfq/internal/quote"
)

// RepriceProcessor handles TypeReprice tasks: it loads the quote, runs every
// priceable line through the remote cost backend and stores the merged
// document back. A per-quote lock keeps a concurrent reprice of the same
// quote from interleaving with the read-merge-write cycle.
type RepriceProcessor struct {
	Quotes       *quote.Service
	Orchestrator *costing.Orchestrator
	Locker       lock.Locker
	Logger       zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (p *RepriceProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload RepricePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		obs.CountOutcome(obs.RepriceJobsTotal, "invalid")
		// A payload that never decodes will never decode; retrying is noise.
		return fmt.Errorf("decode reprice payload: %w", asynq.SkipRetry)
	}
	if p.Locker.R == nil {
		return p.reprice(ctx, payload)
	}
	return p.Locker.WithQuoteLock(ctx, payload.QuoteID, func(ctx context.Context) error {
		return p.reprice(ctx, payload)
	})
}

func (p *RepriceProcessor) reprice(ctx context.Context, payload RepricePayload) error {
	log := p.Logger.With().Str("quote_id", payload.QuoteID.String()).Logger()

	q, err := p.Quotes.Get(ctx, payload.QuoteID)
	if err != nil {
		if errors.Is(err, quote.ErrQuoteNotFound) {
			obs.CountOutcome(obs.RepriceJobsTotal, "missing")
			log.Warn().Msg("reprice: quote vanished before processing")
			return fmt.Errorf("quote %s not found: %w", payload.QuoteID, asynq.SkipRetry)
		}
		obs.CountOutcome(obs.RepriceJobsTotal, "error")
		return fmt.Errorf("load quote: %w", err)
	}

	responses, err := p.Orchestrator.PriceAll(ctx, q.Document.Items)
	if err != nil {
		if errors.Is(err, costing.ErrNoPriceableItems) {
			obs.CountOutcome(obs.RepriceJobsTotal, "empty")
			log.Info().Msg("reprice: no priceable items, nothing to do")
			return nil
		}
		obs.CountOutcome(obs.RepriceJobsTotal, "error")
		return fmt.Errorf("price quote items: %w", err)
	}

	doc := q.Document
	doc.Items = costing.Merge(doc.Items, responses)
	if _, err := p.Quotes.UpdateDocument(ctx, q.ID, doc); err != nil {
		obs.CountOutcome(obs.RepriceJobsTotal, "error")
		return fmt.Errorf("store repriced document: %w", err)
	}

	obs.CountOutcome(obs.RepriceJobsTotal, "ok")
	log.Info().Int("items", len(doc.Items)).Int("priced", len(responses)).Msg("reprice complete")
	return nil
}

// Mux returns an asynq mux with all task handlers registered.
func Mux(reprice *RepriceProcessor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeReprice, reprice)
	return mux
}
