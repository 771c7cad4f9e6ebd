package notify

import (
	"log/slog"

	"github.com/mhasan512/openwave/backend/internal/models"
)

// PreferenceStore is the single read the pipeline needs from preference
// storage. A (nil, nil) return means the user has no row.
type PreferenceStore interface {
	GetPreferences(userID uint) (*models.NotificationPreference, error)
}

// PreferenceResolver maps event types onto the coarse family flags and
// answers whether a real-time push should be attempted. It never gates
// persistence.
type PreferenceResolver struct {
	store  PreferenceStore
	logger *slog.Logger
}

func NewPreferenceResolver(store PreferenceStore, logger *slog.Logger) *PreferenceResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceResolver{store: store, logger: logger}
}

// ShouldPush reports whether real-time delivery is enabled for the recipient
// and event type. Missing rows and lookup failures both resolve to true:
// users receive everything until they explicitly opt out, and a flaky
// preference read must not silence pushes.
func (r *PreferenceResolver) ShouldPush(recipientID uint, t EventType) bool {
	pref, err := r.store.GetPreferences(recipientID)
	if err != nil {
		r.logger.Warn("notify: preference lookup failed, defaulting to push",
			slog.Uint64("recipient_id", uint64(recipientID)),
			slog.Any("error", err))
		return true
	}
	if pref == nil {
		return true
	}

	switch t {
	case EventPostReactionUp, EventPostReactionDown, EventCommentReactionUp, EventCommentReactionDown:
		return pref.Reactions
	case EventCommentOnPost, EventReplyToComment:
		return pref.Comments
	case EventMentionInPost, EventMentionInComment:
		return pref.Mentions
	case EventFollow:
		return pref.Follows
	case EventDirectMessage:
		return pref.DirectMessages
	default:
		// Types without a family flag (community events) are always pushed.
		return true
	}
}
