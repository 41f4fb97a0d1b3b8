package costing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend-rfq/internal/costing"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// stubClient prices each item through a per-pos function, recording every
// request it sees.
type stubClient struct {
	mu    sync.Mutex
	seen  []string
	reply func(item costing.RequestItem) (costing.ResponseItem, error)
}

func (s *stubClient) Calculate(_ context.Context, item costing.RequestItem) (costing.ResponseItem, error) {
	s.mu.Lock()
	s.seen = append(s.seen, item.Pos)
	s.mu.Unlock()
	return s.reply(item)
}

func validItem(id string) rfq.LineItem {
	return rfq.LineItem{
		ID:          id,
		Description: "Part " + id,
		Quantity:    5,
		Material:    "C45",
		Dimensions:  rfq.Dimensions{Length: 100, Width: 50, Height: 20},
	}
}

func okResponse(item costing.RequestItem) (costing.ResponseItem, error) {
	return costing.ResponseItem{
		Status:   "ok",
		CustomID: item.Pos,
		Breakdown: &costing.Breakdown{
			TotalUnitCost: 4.2,
			TotalCost:     4.2 * float64(item.Quantity),
			Currency:      "EUR",
		},
	}, nil
}

func TestPriceAllEveryItemSucceeds(t *testing.T) {
	client := &stubClient{reply: okResponse}
	o := &costing.Orchestrator{Client: client, Logger: zerolog.Nop()}

	set, err := o.PriceAll(context.Background(), []rfq.LineItem{validItem("1"), validItem("2"), validItem("3")})

	require.NoError(t, err)
	require.Len(t, set, 3)
	require.Len(t, client.seen, 3)
	for _, id := range []string{"1", "2", "3"} {
		res, ok := set[id]
		require.True(t, ok, "missing response for %s", id)
		require.False(t, res.Failed())
		require.NotNil(t, res.Breakdown)
	}
}

func TestPriceAllServerErrorBecomesErrorEntry(t *testing.T) {
	client := &stubClient{reply: func(item costing.RequestItem) (costing.ResponseItem, error) {
		if item.Pos == "2" {
			return costing.ResponseItem{}, &costing.ServerError{StatusCode: 502, Body: "material not in catalog"}
		}
		return okResponse(item)
	}}
	o := &costing.Orchestrator{Client: client, Logger: zerolog.Nop()}

	set, err := o.PriceAll(context.Background(), []rfq.LineItem{validItem("1"), validItem("2"), validItem("3")})

	require.NoError(t, err, "one bad item must not fail the batch")
	require.Len(t, set, 3)
	require.False(t, set["1"].Failed())
	require.False(t, set["3"].Failed())

	failed := set["2"]
	require.True(t, failed.Failed())
	require.Equal(t, "2", failed.CustomID)
	require.Equal(t, "material not in catalog", failed.Explanation)
	require.Nil(t, failed.Breakdown)
}

func TestPriceAllTransportErrorBecomesErrorEntry(t *testing.T) {
	client := &stubClient{reply: func(item costing.RequestItem) (costing.ResponseItem, error) {
		return costing.ResponseItem{}, errors.New("dial tcp: connection refused")
	}}
	o := &costing.Orchestrator{Client: client, Logger: zerolog.Nop()}

	set, err := o.PriceAll(context.Background(), []rfq.LineItem{validItem("1")})

	require.NoError(t, err)
	res := set["1"]
	require.True(t, res.Failed())
	require.Contains(t, res.Explanation, "connection refused")
}

func TestPriceAllExcludesUnpriceableItems(t *testing.T) {
	client := &stubClient{reply: okResponse}
	o := &costing.Orchestrator{Client: client, Logger: zerolog.Nop()}

	zeroDims := rfq.LineItem{ID: "bad", Description: "No dims", Quantity: 1}
	set, err := o.PriceAll(context.Background(), []rfq.LineItem{validItem("1"), zeroDims})

	require.NoError(t, err)
	require.Len(t, set, 1)
	require.NotContains(t, set, "bad")
	require.Equal(t, []string{"1"}, client.seen, "rejected items never reach the backend")
}

func TestPriceAllNoPriceableItems(t *testing.T) {
	client := &stubClient{reply: okResponse}
	o := &costing.Orchestrator{Client: client, Logger: zerolog.Nop()}

	_, err := o.PriceAll(context.Background(), []rfq.LineItem{
		{ID: "1", Description: "No dims"},
		{ID: "2", Description: "{{placeholder}}", Dimensions: rfq.Dimensions{Length: 1, Width: 1, Height: 1}},
	})

	require.ErrorIs(t, err, costing.ErrNoPriceableItems)
	require.Empty(t, client.seen)
}

func TestPriceAllBackfillsMissingCustomID(t *testing.T) {
	client := &stubClient{reply: func(item costing.RequestItem) (costing.ResponseItem, error) {
		return costing.ResponseItem{Status: "ok", Breakdown: &costing.Breakdown{TotalCost: 1}}, nil
	}}
	o := &costing.Orchestrator{Client: client, Logger: zerolog.Nop()}

	set, err := o.PriceAll(context.Background(), []rfq.LineItem{validItem("42")})

	require.NoError(t, err)
	require.Contains(t, set, "42")
}
