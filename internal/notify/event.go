// Package notify implements the notification event pipeline: producers emit
// events onto an in-process bus, a single dispatcher turns qualifying events
// into durable notification rows, and a multicast hub pushes them to every
// live connection the recipient holds. Persistence always wins over delivery:
// a row is written whether or not anyone is connected or opted in to pushes.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// EventType is one of the closed set of domain actions that can notify a user.
type EventType string

const (
	EventFollow               EventType = "follow"
	EventPostReactionUp       EventType = "post_reaction_up"
	EventPostReactionDown     EventType = "post_reaction_down"
	EventCommentOnPost        EventType = "comment_on_post"
	EventReplyToComment       EventType = "reply_to_comment"
	EventCommentReactionUp    EventType = "comment_reaction_up"
	EventCommentReactionDown  EventType = "comment_reaction_down"
	EventMentionInPost        EventType = "mention_in_post"
	EventMentionInComment     EventType = "mention_in_comment"
	EventCommunityInvite      EventType = "community_invite"
	EventCommunityJoinRequest EventType = "community_join_request"
	EventCommunityPost        EventType = "community_post"
	EventDirectMessage        EventType = "direct_message"
)

// Event is the ephemeral payload a producer hands to the pipeline. It is
// never persisted as-is; the dispatcher derives a Notification row from it.
type Event struct {
	RecipientID uint
	ActorID     uint
	Type        EventType
	TargetID    string
	TargetType  string // post, comment, user
	Content     string
	ActionURL   string
}

// Bus decouples producers from the dispatcher. Emit never blocks and never
// returns an error: producers fire and forget, and a full buffer drops the
// event with a log line rather than stalling the business operation.
type Bus struct {
	events  chan Event
	handler func(Event)
	logger  *slog.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewBus creates a bus with the given buffer size. The handler is invoked
// sequentially for each event by a single consumer goroutine.
func NewBus(buffer int, handler func(Event), logger *slog.Logger) *Bus {
	if buffer < 1 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		events:  make(chan Event, buffer),
		handler: handler,
		logger:  logger,
	}
}

// Start launches the consumer goroutine. It drains until Stop is called or
// the context is cancelled; events already accepted are processed before the
// consumer exits.
func (b *Bus) Start(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case ev, ok := <-b.events:
				if !ok {
					return
				}
				b.handler(ev)
			case <-ctx.Done():
				// Drain what was accepted before shutdown.
				for {
					select {
					case ev, ok := <-b.events:
						if !ok {
							return
						}
						b.handler(ev)
					default:
						return
					}
				}
			}
		}
	}()
}

// Emit enqueues an event for the dispatcher. Invalid events (no recipient)
// and events that do not fit the buffer are dropped here; the producer never
// learns about either.
func (b *Bus) Emit(ev Event) {
	if ev.RecipientID == 0 {
		b.logger.Warn("notify: dropping event without recipient",
			slog.String("type", string(ev.Type)),
			slog.Uint64("actor_id", uint64(ev.ActorID)))
		return
	}
	select {
	case b.events <- ev:
	default:
		b.logger.Warn("notify: event buffer full, dropping event",
			slog.String("type", string(ev.Type)),
			slog.Uint64("recipient_id", uint64(ev.RecipientID)))
	}
}

// Stop closes the bus and waits for the consumer to finish the backlog.
// Emit must not be called after Stop.
func (b *Bus) Stop() {
	b.stopOnce.Do(func() {
		close(b.events)
	})
	b.wg.Wait()
}
