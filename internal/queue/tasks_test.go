package queue_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend-rfq/internal/queue"
)

func TestNewRepriceTask(t *testing.T) {
	id := uuid.New()

	task, err := queue.NewRepriceTask(id)
	require.NoError(t, err)
	require.Equal(t, queue.TypeReprice, task.Type())

	var payload queue.RepricePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, id, payload.QuoteID)
}
