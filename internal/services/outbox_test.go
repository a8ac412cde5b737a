package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping-system/internal/events"
)

func TestOutbox_EnqueueAssignsMessageIDs(t *testing.T) {
	repo := &fakeOutboxRepo{}
	outbox := newTestOutbox(repo)

	for i := 0; i < 2; i++ {
		err := outbox.Enqueue(context.Background(), nil, events.AggregateShipment, "shipment-1",
			events.EventShipmentStatusChange, "shipment.shipped", events.ShipmentPayload{ShipmentID: "shipment-1"})
		require.NoError(t, err)
	}

	require.Len(t, repo.events, 2)
	for _, e := range repo.events {
		_, err := uuid.Parse(e.ID)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, repo.events[0].ID, repo.events[1].ID)

	var payload events.ShipmentPayload
	require.NoError(t, json.Unmarshal(repo.events[0].Payload, &payload))
	assert.Equal(t, "shipment-1", payload.ShipmentID)
}
