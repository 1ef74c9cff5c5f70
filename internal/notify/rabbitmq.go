package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the channel method RabbitSMS uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type smsPayload struct {
	To           string `json:"to"`
	Text         string `json:"text"`
	Event        string `json:"event"`
	TrackingCode string `json:"trackingCode,omitempty"`
}

// RabbitSMS queues text messages for the SMS worker. Messages without a
// phone number are skipped.
type RabbitSMS struct {
	conn  *amqp.Connection
	ch    Publisher
	queue string
}

func DialRabbitSMS(url, queue string) (*RabbitSMS, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", queue, err)
	}
	return &RabbitSMS{conn: conn, ch: ch, queue: queue}, nil
}

// NewRabbitSMSWithPublisher is used by tests.
func NewRabbitSMSWithPublisher(p Publisher, queue string) *RabbitSMS {
	return &RabbitSMS{ch: p, queue: queue}
}

func (r *RabbitSMS) Notify(ctx context.Context, msg Message) error {
	to := strings.TrimSpace(msg.Phone)
	if to == "" || strings.TrimSpace(msg.Text) == "" {
		return nil
	}
	body, err := json.Marshal(smsPayload{To: to, Text: msg.Text, Event: msg.Event, TrackingCode: msg.TrackingCode})
	if err != nil {
		return fmt.Errorf("marshal sms: %w", err)
	}
	return r.ch.PublishWithContext(ctx, "", r.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (r *RabbitSMS) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}
