package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/careslot/appointment-booking-service/internal/domain"
)

// EventPublisher writes appointment events to the configured topic.
type EventPublisher struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewEventPublisher(broker, topic string, logger *logrus.Logger) *EventPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      []string{broker},
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: int(kafka.RequireOne),
	})
	return &EventPublisher{writer: writer, logger: logger}
}

// Publish sends one event, keyed by appointment id so events for the same
// appointment land on the same partition.
func (p *EventPublisher) Publish(event domain.AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(int(event.AppointmentID))),
		Value: payload,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"Topic":         p.writer.Topic,
		"EventType":     event.Type,
		"AppointmentID": event.AppointmentID,
	}).Info("Appointment event produced")
	return nil
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}

// EnsureTopicExists creates the topic when the broker does not auto-create
// it. Called once at startup.
func EnsureTopicExists(broker, topic string) error {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return fmt.Errorf("failed to dial broker: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to resolve controller: %w", err)
	}
	ctrlConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("failed to dial controller: %w", err)
	}
	defer ctrlConn.Close()

	return ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
