// File: services/notification/fcm.go
package notification

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"barberbook/utils"
)

// FCMTransport delivers pushes through Firebase Cloud Messaging.
type FCMTransport struct {
	client *messaging.Client
}

// NewFCMTransport initializes the Firebase app from a service account file
// and returns a transport over its messaging client.
func NewFCMTransport(ctx context.Context, credentialsFile string) (*FCMTransport, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return &FCMTransport{client: client}, nil
}

func (t *FCMTransport) Send(ctx context.Context, msg PushMessage) DeliveryOutcome {
	fcmMsg := &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	_, err := t.client.Send(ctx, fcmMsg)
	if err == nil {
		return Delivered
	}
	if messaging.IsUnregistered(err) || messaging.IsSenderIDMismatch(err) || errorutils.IsInvalidArgument(err) {
		return PermanentFailure
	}
	utils.GetLogger().Warn("FCM send failed", zap.Error(err))
	return TransientFailure
}
