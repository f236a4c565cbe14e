package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
)

type publishStub struct {
	channel string
	payload []byte
	err     error
}

func (s *publishStub) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	s.channel = channel
	s.payload, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if s.err != nil {
		cmd.SetErr(s.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestEventPublisherPublish(t *testing.T) {
	stub := &publishStub{}
	publisher := &EventPublisher{client: stub, channel: "appointments.events"}

	err := publisher.Publish(context.Background(), models.AppointmentEvent{
		ID:            "evt-1",
		Type:          models.EventAppointmentBooked,
		AppointmentID: "apt-1",
		ActorID:       "student-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "appointments.events", stub.channel)

	var decoded models.AppointmentEvent
	require.NoError(t, json.Unmarshal(stub.payload, &decoded))
	assert.Equal(t, models.EventAppointmentBooked, decoded.Type)
	assert.Equal(t, "apt-1", decoded.AppointmentID)
}

func TestEventPublisherPublishError(t *testing.T) {
	publisher := &EventPublisher{client: &publishStub{err: errors.New("READONLY")}, channel: "c"}
	err := publisher.Publish(context.Background(), models.AppointmentEvent{ID: "evt-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis publish c")
}

func TestEventPublisherWithoutClientIsNoop(t *testing.T) {
	publisher := NewEventPublisher(nil, "c")
	assert.NoError(t, publisher.Publish(context.Background(), models.AppointmentEvent{ID: "evt-1"}))
}
