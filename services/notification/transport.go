// File: services/notification/transport.go
package notification

import "context"

// DeliveryOutcome classifies one push attempt to one device.
type DeliveryOutcome int

const (
	// Delivered means the provider accepted the message.
	Delivered DeliveryOutcome = iota
	// TransientFailure means the attempt failed but the token may still be
	// good (timeout, provider hiccup). The device stays registered.
	TransientFailure
	// PermanentFailure means the provider rejected the token itself. The
	// device should be deactivated.
	PermanentFailure
)

func (o DeliveryOutcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case TransientFailure:
		return "transient_failure"
	case PermanentFailure:
		return "permanent_failure"
	default:
		return "unknown"
	}
}

// PushMessage is one provider-bound push payload.
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// PushTransport delivers one push message to one device token. Send must
// honor ctx cancellation and classify the result; it never panics the
// fan-out.
type PushTransport interface {
	Send(ctx context.Context, msg PushMessage) DeliveryOutcome
}
