package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"firebase.google.com/go/v4/messaging"
)

// FCMDeliverer sends notification payloads to registered devices through
// Firebase Cloud Messaging. It is strictly best effort: per-token failures
// are logged and absorbed, matching the delivery semantics of the hub.
type FCMDeliverer struct {
	client *messaging.Client
	logger *slog.Logger
}

func NewFCMDeliverer(client *messaging.Client, logger *slog.Logger) *FCMDeliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FCMDeliverer{client: client, logger: logger}
}

// Send pushes the payload to each token as a data message. The client app
// renders it from the embedded notification record.
func (f *FCMDeliverer) Send(ctx context.Context, tokens []string, payload PushPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		f.logger.Error("notify: failed to encode push payload", slog.Any("error", err))
		return
	}

	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Data: map[string]string{
				"type":    payload.Notification.Type,
				"payload": string(body),
			},
		}
		if _, err := f.client.Send(ctx, msg); err != nil {
			f.logger.Warn("notify: FCM send failed",
				slog.Uint64("notification_id", uint64(payload.Notification.ID)),
				slog.Any("error", err))
		}
	}
}
