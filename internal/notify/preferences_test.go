package notify

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/mhasan512/openwave/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func allEventTypes() []EventType {
	return []EventType{
		EventFollow,
		EventPostReactionUp, EventPostReactionDown,
		EventCommentOnPost, EventReplyToComment,
		EventCommentReactionUp, EventCommentReactionDown,
		EventMentionInPost, EventMentionInComment,
		EventCommunityInvite, EventCommunityJoinRequest, EventCommunityPost,
		EventDirectMessage,
	}
}

func TestShouldPushFailOpenWithoutRow(t *testing.T) {
	r := NewPreferenceResolver(&fakePreferenceStore{}, slog.New(slog.DiscardHandler))

	for _, et := range allEventTypes() {
		assert.True(t, r.ShouldPush(7, et), "type %s must default to push", et)
	}
}

func TestShouldPushFailOpenOnLookupError(t *testing.T) {
	r := NewPreferenceResolver(&fakePreferenceStore{err: errors.New("timeout")}, slog.New(slog.DiscardHandler))

	assert.True(t, r.ShouldPush(7, EventFollow))
}

func TestShouldPushFamilyMapping(t *testing.T) {
	tests := []struct {
		name     string
		pref     models.NotificationPreference
		muted    []EventType
		unmuted  []EventType
	}{
		{
			name: "reactions muted",
			pref: models.NotificationPreference{Comments: true, Mentions: true, Follows: true, DirectMessages: true},
			muted: []EventType{
				EventPostReactionUp, EventPostReactionDown,
				EventCommentReactionUp, EventCommentReactionDown,
			},
			unmuted: []EventType{EventFollow, EventCommentOnPost, EventMentionInPost, EventDirectMessage},
		},
		{
			name: "comments muted",
			pref: models.NotificationPreference{Reactions: true, Mentions: true, Follows: true, DirectMessages: true},
			muted:   []EventType{EventCommentOnPost, EventReplyToComment},
			unmuted: []EventType{EventPostReactionUp, EventMentionInComment, EventFollow},
		},
		{
			name: "mentions muted",
			pref: models.NotificationPreference{Reactions: true, Comments: true, Follows: true, DirectMessages: true},
			muted:   []EventType{EventMentionInPost, EventMentionInComment},
			unmuted: []EventType{EventCommentOnPost, EventFollow},
		},
		{
			name: "follows muted",
			pref: models.NotificationPreference{Reactions: true, Comments: true, Mentions: true, DirectMessages: true},
			muted:   []EventType{EventFollow},
			unmuted: []EventType{EventDirectMessage},
		},
		{
			name: "direct messages muted",
			pref: models.NotificationPreference{Reactions: true, Comments: true, Mentions: true, Follows: true},
			muted:   []EventType{EventDirectMessage},
			unmuted: []EventType{EventFollow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pref := tt.pref
			pref.UserID = 7
			r := NewPreferenceResolver(&fakePreferenceStore{
				prefs: map[uint]*models.NotificationPreference{7: &pref},
			}, slog.New(slog.DiscardHandler))

			for _, et := range tt.muted {
				assert.False(t, r.ShouldPush(7, et), "type %s should be muted", et)
			}
			for _, et := range tt.unmuted {
				assert.True(t, r.ShouldPush(7, et), "type %s should push", et)
			}
		})
	}
}

func TestShouldPushUnmappedTypesAlwaysAllowed(t *testing.T) {
	// All family flags off; community events have no flag and still push.
	r := NewPreferenceResolver(&fakePreferenceStore{
		prefs: map[uint]*models.NotificationPreference{7: {UserID: 7}},
	}, slog.New(slog.DiscardHandler))

	for _, et := range []EventType{EventCommunityInvite, EventCommunityJoinRequest, EventCommunityPost} {
		assert.True(t, r.ShouldPush(7, et), "type %s has no family flag", et)
	}
	assert.False(t, r.ShouldPush(7, EventFollow))
}
