package rabbitmq_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"loadboard/internal/adapters/out/rabbitmq"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func locationEvent(t *testing.T) load.Event {
	t.Helper()
	pos, err := kernel.NewPosition(28.61, 77.21)
	require.NoError(t, err)
	driver := kernel.ID(7)
	return load.Event{
		ID:            uuid.New(),
		Name:          load.EventLocationUpdated,
		LoadID:        kernel.ID(3),
		Status:        load.InTransit,
		PaymentStatus: load.Unpaid,
		DriverID:      &driver,
		Position:      &pos,
		OccurredAt:    time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewMessage(t *testing.T) {
	event := locationEvent(t)

	msg := rabbitmq.NewMessage(event)

	assert.Equal(t, event.ID.String(), msg.EventID)
	assert.Equal(t, "load.location_updated", msg.Event)
	assert.Equal(t, "UTI-3", msg.Reference)
	assert.Equal(t, "intransit", msg.Status)
	assert.Equal(t, "unpaid", msg.PaymentStatus)
	require.NotNil(t, msg.DriverID)
	assert.Equal(t, int64(7), *msg.DriverID)
	assert.InDelta(t, 28.61, *msg.Lat, 0.0001)
	assert.InDelta(t, 77.21, *msg.Lng, 0.0001)
}

func TestNewMessage_WithoutDriver(t *testing.T) {
	msg := rabbitmq.NewMessage(load.Event{
		ID:            uuid.New(),
		Name:          load.EventPosted,
		LoadID:        kernel.ID(1),
		Status:        load.Pending,
		PaymentStatus: load.Unpaid,
	})

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "driver_id")
	assert.NotContains(t, string(body), "lat")
}

type PublisherTestSuite struct {
	suite.Suite
	container testcontainers.Container
	url       string
}

func TestPublisherTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PublisherTestSuite))
}

func (s *PublisherTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	s.Require().NoError(err)
	s.url = fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())
}

func (s *PublisherTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *PublisherTestSuite) TestPublish_RoutesByEventName() {
	publisher, err := rabbitmq.NewPublisher(s.url, "test.events")
	s.Require().NoError(err)
	defer publisher.Close()

	conn, err := amqp.Dial(s.url)
	s.Require().NoError(err)
	defer conn.Close()
	ch, err := conn.Channel()
	s.Require().NoError(err)

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	s.Require().NoError(err)
	s.Require().NoError(ch.QueueBind(queue.Name, "load.location_updated", "test.events", false, nil))

	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	s.Require().NoError(err)

	event := locationEvent(s.T())
	posted := load.Event{ID: uuid.New(), Name: load.EventPosted, LoadID: kernel.ID(3),
		Status: load.Pending, PaymentStatus: load.Unpaid}
	s.Require().NoError(publisher.Publish(context.Background(), posted, event))

	select {
	case d := <-deliveries:
		s.Equal(event.ID.String(), d.MessageId)
		s.Equal("application/json", d.ContentType)
		s.Equal(uint8(amqp.Persistent), d.DeliveryMode)

		var msg rabbitmq.Message
		s.Require().NoError(json.Unmarshal(d.Body, &msg))
		s.Equal("UTI-3", msg.Reference)
		s.Equal("load.location_updated", msg.Event)
	case <-time.After(10 * time.Second):
		s.Fail("no message delivered")
	}

	select {
	case d := <-deliveries:
		s.Failf("unexpected delivery", "routing key %s", d.RoutingKey)
	case <-time.After(500 * time.Millisecond):
	}
}

func (s *PublisherTestSuite) TestPublish_AfterCloseFails() {
	publisher, err := rabbitmq.NewPublisher(s.url, "")
	s.Require().NoError(err)
	s.Require().NoError(publisher.Close())

	err = publisher.Publish(context.Background(), locationEvent(s.T()))
	s.ErrorIs(err, rabbitmq.ErrPublisherClosed)
}
