package notify

import (
	"context"
	"errors"
	"time"

	"swiftlink/internal/domain"
	"swiftlink/internal/utils"
)

// Event names published on the shipment topic.
const (
	EventShipmentCreated   = "shipment.created"
	EventShipmentPickedUp  = "shipment.picked_up"
	EventShipmentDelivered = "shipment.delivered"
	EventShipmentCancelled = "shipment.cancelled"
	EventOTPRequested      = "auth.otp_requested"
)

// Message is one outbound notification. Phone is the SMS target; Event and
// TrackingCode feed the event stream.
type Message struct {
	Event        string                `json:"event"`
	TrackingCode string                `json:"trackingCode,omitempty"`
	Status       domain.ShipmentStatus `json:"status,omitempty"`
	Phone        string                `json:"-"`
	Text         string                `json:"text,omitempty"`
	OccurredAt   time.Time             `json:"occurredAt"`
}

// Notifier delivers a message over one channel.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Fanout sends every message to each channel and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier only writes the message to the log. It is the default when no
// broker is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, msg Message) error {
	utils.LogEventf("", "notify", msg.Event, "tracking_code=%s phone=%s", msg.TrackingCode, utils.MaskTail(msg.Phone, 3))
	return nil
}

// Dispatcher runs notifications off the request path. Failures are logged
// and counted, never returned.
type Dispatcher struct {
	Notifier Notifier
	Timeout  time.Duration
	OnError  func(msg Message, err error)
}

// Send schedules msg and returns immediately.
func (d Dispatcher) Send(requestID string, msg Message) {
	if d.Notifier == nil {
		return
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := d.Notifier.Notify(ctx, msg); err != nil {
			utils.LogEvent(requestID, "notify", msg.Event, "delivery failed: "+err.Error())
			if d.OnError != nil {
				d.OnError(msg, err)
			}
		}
	}()
}
