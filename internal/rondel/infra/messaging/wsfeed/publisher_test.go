package wsfeed

import (
	"context"
	"testing"

	"Imperial/internal/rondel/contract"
	"Imperial/internal/rondel/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHub struct {
	topics   []string
	names    []string
	payloads []any
}

func (h *recordingHub) Broadcast(topic, name string, payload any) int {
	h.topics = append(h.topics, topic)
	h.names = append(h.names, name)
	h.payloads = append(h.payloads, payload)
	return 0
}

func TestPublisher_按局推送(t *testing.T) {
	hub := &recordingHub{}
	p := NewPublisher(hub)

	require.NoError(t, p.Publish(context.Background(), domain.MoveToActionSpaceRejected{GameID: "g-1", Nation: "France", Space: domain.Import}))

	assert.Equal(t, []string{"g-1"}, hub.topics)
	assert.Equal(t, []string{"MoveToActionSpaceRejected"}, hub.names)
	env := hub.payloads[0].(contract.EventEnvelope)
	assert.Equal(t, "Import", env.Space)
}
