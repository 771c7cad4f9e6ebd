package notify

import (
	"context"
	"log/slog"

	"github.com/mhasan512/openwave/backend/internal/models"
)

// NotificationStore is the single write the pipeline needs from notification
// storage.
type NotificationStore interface {
	Insert(notification *models.Notification) error
}

// ActorStore loads the minimal public profile embedded in push payloads.
type ActorStore interface {
	GetUserByID(id uint) (*models.User, error)
}

// Broadcaster fans a payload out to a user's live connections and reports
// how many received it.
type Broadcaster interface {
	Broadcast(userID uint, payload interface{}) int
}

// PushSender delivers a payload to offline devices, best effort.
type PushSender interface {
	Send(ctx context.Context, tokens []string, payload PushPayload)
}

// DeviceTokenLister enumerates a user's registered push tokens.
type DeviceTokenLister interface {
	ListTokensByUser(userID uint) ([]string, error)
}

// PushPayload is what a connected client receives: the stored notification
// plus the actor's public profile.
type PushPayload struct {
	Notification models.Notification `json:"notification"`
	Actor        models.UserCompact  `json:"actor"`
}

// Dispatcher is the sole consumer of events. For each event it suppresses
// self-notifications, persists a row, and attempts best-effort real-time
// delivery when the recipient's preferences allow it. Failures never reach
// the producer; durability takes priority over delivery.
type Dispatcher struct {
	notifications NotificationStore
	prefs         *PreferenceResolver
	actors        ActorStore
	hub           Broadcaster
	push          PushSender        // optional
	devices       DeviceTokenLister // optional, required when push is set
	logger        *slog.Logger
}

func NewDispatcher(
	notifications NotificationStore,
	prefs *PreferenceResolver,
	actors ActorStore,
	hub Broadcaster,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		notifications: notifications,
		prefs:         prefs,
		actors:        actors,
		hub:           hub,
		logger:        logger,
	}
}

// WithPush enables the FCM fallback for recipients with zero live
// connections.
func (d *Dispatcher) WithPush(push PushSender, devices DeviceTokenLister) *Dispatcher {
	d.push = push
	d.devices = devices
	return d
}

// Handle processes one event to completion. Steps run in order: self-check,
// preference lookup, persist, broadcast. Persistence happens-before any
// delivery attempt, and a delivery failure never rolls the row back.
func (d *Dispatcher) Handle(ev Event) {
	if ev.RecipientID == ev.ActorID {
		return
	}

	shouldPush := d.prefs.ShouldPush(ev.RecipientID, ev.Type)

	notification := models.Notification{
		Type:        string(ev.Type),
		ActorID:     ev.ActorID,
		RecipientID: ev.RecipientID,
		TargetID:    ev.TargetID,
		TargetType:  ev.TargetType,
		Content:     ev.Content,
		ActionURL:   ev.ActionURL,
		IsRead:      false,
	}
	if err := d.notifications.Insert(&notification); err != nil {
		// Terminal for this event: no retry, no queue. The producer has
		// long since moved on.
		d.logger.Error("notify: failed to persist notification",
			slog.String("type", string(ev.Type)),
			slog.Uint64("recipient_id", uint64(ev.RecipientID)),
			slog.Any("error", err))
		return
	}

	if !shouldPush {
		return
	}

	actor, err := d.actors.GetUserByID(ev.ActorID)
	if err != nil {
		d.logger.Warn("notify: actor lookup failed, skipping delivery",
			slog.Uint64("notification_id", uint64(notification.ID)),
			slog.Uint64("actor_id", uint64(ev.ActorID)),
			slog.Any("error", err))
		return
	}

	payload := PushPayload{Notification: notification, Actor: actor.ToCompact()}
	delivered := d.hub.Broadcast(ev.RecipientID, payload)
	if delivered > 0 || d.push == nil {
		return
	}

	// Nobody is connected; fall back to device push.
	tokens, err := d.devices.ListTokensByUser(ev.RecipientID)
	if err != nil {
		d.logger.Warn("notify: device token lookup failed",
			slog.Uint64("recipient_id", uint64(ev.RecipientID)),
			slog.Any("error", err))
		return
	}
	if len(tokens) > 0 {
		d.push.Send(context.Background(), tokens, payload)
	}
}
