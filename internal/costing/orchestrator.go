package costing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quotedesk/backend-rfq/internal/obs"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// ErrNoPriceableItems is returned when every submitted item was rejected
// by the sanitizer. It is the only batch-level failure: per-item errors
// are folded into the response set instead.
var ErrNoPriceableItems = errors.New("costing: no priceable items in batch")

// Orchestrator issues one isolated pricing request per valid line item and
// collects all outcomes, successful or not, before returning.
type Orchestrator struct {
	Client Client
	Logger zerolog.Logger
}

// PriceAll prices every item that passes sanitization. All requests run
// concurrently and the call returns only after every one of them settled.
// The response set contains exactly one entry per sanitized item: server
// errors and transport failures are synthesized into error-status entries
// carrying the failure text, so a single bad item can never block or
// corrupt the others.
func (o *Orchestrator) PriceAll(ctx context.Context, items []rfq.LineItem) (ResponseSet, error) {
	if o.Client == nil {
		return nil, errors.New("costing: client not configured")
	}

	valid := make([]rfq.LineItem, 0, len(items))
	for _, item := range items {
		ok, reason := Priceable(item)
		if !ok {
			o.Logger.Warn().
				Str("item_id", item.ID).
				Str("description", item.Description).
				Str("reason", reason).
				Msg("item excluded from remote pricing")
			o.count("rejected")
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return nil, ErrNoPriceableItems
	}

	start := time.Now()
	results := make([]ResponseItem, len(valid))
	var wg sync.WaitGroup
	for i, item := range valid {
		wg.Add(1)
		go func(slot int, item rfq.LineItem) {
			defer wg.Done()
			results[slot] = o.priceOne(ctx, item)
		}(i, item)
	}
	wg.Wait()
	if obs.CostBatchDuration != nil {
		obs.CostBatchDuration.Observe(obs.DurationMillis(time.Since(start)))
	}

	// Correlate strictly by echoed identifier, never by position.
	set := make(ResponseSet, len(results))
	for _, res := range results {
		set[res.CustomID] = res
	}
	return set, nil
}

func (o *Orchestrator) priceOne(ctx context.Context, item rfq.LineItem) ResponseItem {
	res, err := o.Client.Calculate(ctx, BuildRequestItem(item))
	if err == nil {
		if res.CustomID == "" {
			res.CustomID = item.ID
		}
		o.count("ok")
		return res
	}

	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		o.Logger.Warn().
			Str("item_id", item.ID).
			Int("status", srvErr.StatusCode).
			Msg("pricing backend rejected item")
		o.count("server_error")
		return ResponseItem{
			Status:      StatusError,
			CustomID:    item.ID,
			Explanation: srvErr.Body,
		}
	}

	o.Logger.Warn().
		Str("item_id", item.ID).
		Err(err).
		Msg("pricing request failed")
	o.count("transport_error")
	return ResponseItem{
		Status:      StatusError,
		CustomID:    item.ID,
		Explanation: err.Error(),
	}
}

func (o *Orchestrator) count(outcome string) {
	obs.CountOutcome(obs.CostRequestsTotal, outcome)
}
