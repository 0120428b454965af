package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-hub/internal/config"
)

// QueueConfig очередь и ключ маршрутизации, с которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Topology описывает exchange и привязанные к нему очереди.
type Topology struct {
	Exchange string
	Queues   []QueueConfig
}

// EnrollmentTopology строит топологию событий о зачислении из конфига.
func EnrollmentTopology(cfg config.RabbitMQ) Topology {
	return Topology{
		Exchange: cfg.Exchange,
		Queues: []QueueConfig{
			{QueueName: cfg.Queue, RoutingKey: cfg.RoutingKey},
		},
	}
}

// SetupChannel открывает канал и объявляет durable direct exchange, очереди и привязки.
func SetupChannel(conn *amqp.Connection, topology Topology, prefetch int) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
		}
	}

	err = ch.ExchangeDeclare(
		topology.Exchange,
		amqp.ExchangeDirect,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range topology.Queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, topology.Exchange, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
