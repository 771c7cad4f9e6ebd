package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/mhasan512/openwave/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationStore struct {
	mu       sync.Mutex
	inserted []models.Notification
	err      error
}

func (s *fakeNotificationStore) Insert(n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	n.ID = uint(len(s.inserted) + 1)
	s.inserted = append(s.inserted, *n)
	return nil
}

func (s *fakeNotificationStore) all() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.inserted...)
}

type fakePreferenceStore struct {
	prefs map[uint]*models.NotificationPreference
	err   error
}

func (s *fakePreferenceStore) GetPreferences(userID uint) (*models.NotificationPreference, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.prefs[userID], nil
}

type fakeActorStore struct {
	users map[uint]models.User
}

func (s *fakeActorStore) GetUserByID(id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &u, nil
}

type fakeBroadcaster struct {
	mu        sync.Mutex
	payloads  map[uint][]PushPayload
	delivered int
}

func (b *fakeBroadcaster) Broadcast(userID uint, payload interface{}) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.payloads == nil {
		b.payloads = make(map[uint][]PushPayload)
	}
	b.payloads[userID] = append(b.payloads[userID], payload.(PushPayload))
	return b.delivered
}

func (b *fakeBroadcaster) sentTo(userID uint) []PushPayload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.payloads[userID]
}

type fakePushSender struct {
	mu    sync.Mutex
	sends [][]string
}

func (p *fakePushSender) Send(_ context.Context, tokens []string, _ PushPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sends = append(p.sends, tokens)
}

type fakeDeviceTokens struct {
	tokens map[uint][]string
}

func (d *fakeDeviceTokens) ListTokensByUser(userID uint) ([]string, error) {
	return d.tokens[userID], nil
}

func newTestDispatcher(store *fakeNotificationStore, prefs *fakePreferenceStore, actors *fakeActorStore, hub *fakeBroadcaster) *Dispatcher {
	logger := slog.New(slog.DiscardHandler)
	return NewDispatcher(store, NewPreferenceResolver(prefs, logger), actors, hub, logger)
}

func defaultActors() *fakeActorStore {
	return &fakeActorStore{users: map[uint]models.User{
		1: {ID: 1, Username: "alice", DisplayName: "Alice", AvatarURL: "https://cdn.example.com/a.png"},
		2: {ID: 2, Username: "bob", DisplayName: "Bob"},
	}}
}

func TestDispatcherSuppressesSelfEvents(t *testing.T) {
	store := &fakeNotificationStore{}
	hub := &fakeBroadcaster{delivered: 1}
	d := newTestDispatcher(store, &fakePreferenceStore{}, defaultActors(), hub)

	d.Handle(Event{RecipientID: 1, ActorID: 1, Type: EventFollow})

	assert.Empty(t, store.all(), "self event must not be persisted")
	assert.Empty(t, hub.sentTo(1), "self event must not be broadcast")
}

func TestDispatcherPersistsAndBroadcasts(t *testing.T) {
	store := &fakeNotificationStore{}
	hub := &fakeBroadcaster{delivered: 2}
	d := newTestDispatcher(store, &fakePreferenceStore{}, defaultActors(), hub)

	d.Handle(Event{
		RecipientID: 2,
		ActorID:     1,
		Type:        EventFollow,
		TargetID:    "1",
		TargetType:  "user",
		ActionURL:   "/users/1",
	})

	rows := store.all()
	require.Len(t, rows, 1)
	assert.Equal(t, uint(2), rows[0].RecipientID)
	assert.Equal(t, uint(1), rows[0].ActorID)
	assert.Equal(t, string(EventFollow), rows[0].Type)
	assert.Equal(t, "/users/1", rows[0].ActionURL)
	assert.False(t, rows[0].IsRead)
	assert.Nil(t, rows[0].ReadAt)

	sent := hub.sentTo(2)
	require.Len(t, sent, 1)
	assert.Equal(t, rows[0].ID, sent[0].Notification.ID)
	assert.Equal(t, "alice", sent[0].Actor.Username)
	assert.Equal(t, "Alice", sent[0].Actor.DisplayName)
}

func TestDispatcherPersistsWhenPushDisabled(t *testing.T) {
	store := &fakeNotificationStore{}
	hub := &fakeBroadcaster{delivered: 1}
	prefs := &fakePreferenceStore{prefs: map[uint]*models.NotificationPreference{
		2: {UserID: 2, Reactions: true, Comments: true, Mentions: true, Follows: false, DirectMessages: true},
	}}
	d := newTestDispatcher(store, prefs, defaultActors(), hub)

	d.Handle(Event{RecipientID: 2, ActorID: 1, Type: EventFollow})

	require.Len(t, store.all(), 1, "persistence is not gated by preferences")
	assert.Empty(t, hub.sentTo(2), "disabled family must not be broadcast")
}

func TestDispatcherAbsorbsPersistenceFailure(t *testing.T) {
	store := &fakeNotificationStore{err: errors.New("connection refused")}
	hub := &fakeBroadcaster{delivered: 1}
	d := newTestDispatcher(store, &fakePreferenceStore{}, defaultActors(), hub)

	assert.NotPanics(t, func() {
		d.Handle(Event{RecipientID: 2, ActorID: 1, Type: EventCommentOnPost})
	})
	assert.Empty(t, hub.sentTo(2), "no broadcast without a persisted row")
}

func TestDispatcherSkipsDeliveryWhenActorMissing(t *testing.T) {
	store := &fakeNotificationStore{}
	hub := &fakeBroadcaster{delivered: 1}
	d := newTestDispatcher(store, &fakePreferenceStore{}, &fakeActorStore{users: map[uint]models.User{}}, hub)

	d.Handle(Event{RecipientID: 2, ActorID: 99, Type: EventFollow})

	require.Len(t, store.all(), 1, "row is kept even when the payload cannot be built")
	assert.Empty(t, hub.sentTo(2))
}

func TestDispatcherFallsBackToDevicePush(t *testing.T) {
	store := &fakeNotificationStore{}
	hub := &fakeBroadcaster{delivered: 0}
	push := &fakePushSender{}
	devices := &fakeDeviceTokens{tokens: map[uint][]string{2: {"token-a", "token-b"}}}
	d := newTestDispatcher(store, &fakePreferenceStore{}, defaultActors(), hub).WithPush(push, devices)

	d.Handle(Event{RecipientID: 2, ActorID: 1, Type: EventDirectMessage})

	require.Len(t, push.sends, 1)
	assert.Equal(t, []string{"token-a", "token-b"}, push.sends[0])
}

func TestDispatcherSkipsDevicePushWhenSocketsDelivered(t *testing.T) {
	store := &fakeNotificationStore{}
	hub := &fakeBroadcaster{delivered: 1}
	push := &fakePushSender{}
	devices := &fakeDeviceTokens{tokens: map[uint][]string{2: {"token-a"}}}
	d := newTestDispatcher(store, &fakePreferenceStore{}, defaultActors(), hub).WithPush(push, devices)

	d.Handle(Event{RecipientID: 2, ActorID: 1, Type: EventDirectMessage})

	assert.Empty(t, push.sends)
}

func TestDispatcherMentionFanOutIsIndependent(t *testing.T) {
	store := &fakeNotificationStore{}
	hub := &fakeBroadcaster{delivered: 1}
	// Recipient 3 muted mentions, recipients 4 and 5 have no rows.
	prefs := &fakePreferenceStore{prefs: map[uint]*models.NotificationPreference{
		3: {UserID: 3, Reactions: true, Comments: true, Mentions: false, Follows: true, DirectMessages: true},
	}}
	actors := defaultActors()
	d := newTestDispatcher(store, prefs, actors, hub)

	for _, recipient := range []uint{3, 4, 5} {
		d.Handle(Event{
			RecipientID: recipient,
			ActorID:     1,
			Type:        EventMentionInPost,
			TargetID:    "abc123",
			TargetType:  "post",
		})
	}

	require.Len(t, store.all(), 3, "every mention persists a row")
	assert.Empty(t, hub.sentTo(3), "muted recipient gets no push")
	assert.Len(t, hub.sentTo(4), 1)
	assert.Len(t, hub.sentTo(5), 1)
}

func TestBusDeliversToHandler(t *testing.T) {
	var mu sync.Mutex
	var got []Event
	done := make(chan struct{})
	bus := NewBus(16, func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		if len(got) == 3 {
			close(done)
		}
		mu.Unlock()
	}, slog.New(slog.DiscardHandler))
	bus.Start(context.Background())

	for i := 0; i < 3; i++ {
		bus.Emit(Event{RecipientID: uint(i + 1), ActorID: 10, Type: EventFollow})
	}
	<-done
	bus.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 3)
}

func TestBusDropsEventsWithoutRecipient(t *testing.T) {
	var mu sync.Mutex
	count := 0
	bus := NewBus(4, func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	}, slog.New(slog.DiscardHandler))
	bus.Start(context.Background())

	bus.Emit(Event{RecipientID: 0, ActorID: 1, Type: EventFollow})
	bus.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestBusEmitNeverBlocksWhenFull(t *testing.T) {
	release := make(chan struct{})
	bus := NewBus(1, func(Event) { <-release }, slog.New(slog.DiscardHandler))
	bus.Start(context.Background())

	// Fill the consumer and the buffer, then keep emitting.
	for i := 0; i < 50; i++ {
		bus.Emit(Event{RecipientID: uint(i + 1), ActorID: 100, Type: EventFollow})
	}
	close(release)
	bus.Stop()
}

func TestBusProcessesBacklogOnStop(t *testing.T) {
	var mu sync.Mutex
	var got []uint
	bus := NewBus(64, func(ev Event) {
		mu.Lock()
		got = append(got, ev.RecipientID)
		mu.Unlock()
	}, slog.New(slog.DiscardHandler))
	bus.Start(context.Background())

	for i := 1; i <= 10; i++ {
		bus.Emit(Event{RecipientID: uint(i), ActorID: 100, Type: EventFollow})
	}
	bus.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 10, fmt.Sprintf("expected full backlog, got %v", got))
}
