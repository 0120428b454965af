package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-hub/internal/models"
)

func TestPublisher_PublishEnrollment(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	uri := amqpURIForTest(ctx, t)

	conn, err := Connect(ctx, uri, 5, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	topology := Topology{
		Exchange: "enrollments-test",
		Queues:   []QueueConfig{{QueueName: "enrollment-publish-test", RoutingKey: "enrollment.created"}},
	}
	ch, err := SetupChannel(conn, topology, 0)
	require.NoError(t, err)
	publisher := NewPublisher(ch, topology.Exchange, "enrollment.created")
	defer func() { _ = publisher.Close() }()

	const total = 5
	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := publisher.PublishEnrollment(ctx, models.EnrollmentEvent{
				SubscriptionID: fmt.Sprintf("sub-%d", i),
				Email:          "learner@example.com",
				CourseTitle:    "Cloud Security Essentials",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	consumeCh, err := conn.Channel()
	require.NoError(t, err)
	defer func() { _ = consumeCh.Close() }()
	deliveries, err := consumeCh.Consume("enrollment-publish-test", "test-consumer", true, false, false, false, nil)
	require.NoError(t, err)

	seen := map[string]bool{}
	for len(seen) < total {
		select {
		case d := <-deliveries:
			var got models.EnrollmentEvent
			require.NoError(t, json.Unmarshal(d.Body, &got))
			assert.Equal(t, "application/json", d.ContentType)
			assert.Equal(t, "Cloud Security Essentials", got.CourseTitle)
			seen[got.SubscriptionID] = true
		case <-time.After(10 * time.Second):
			t.Fatalf("timeout waiting for messages, got %d of %d", len(seen), total)
		}
	}
}

func TestPublisher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPublisher(nil, "ex", "rk")
	err := p.PublishEnrollment(ctx, models.EnrollmentEvent{})
	assert.ErrorIs(t, err, context.Canceled)
}
