package notify

import (
	"regexp"
	"strings"

	"github.com/mhasan512/openwave/backend/internal/models"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// UserLookup resolves a mention handle to a user.
type UserLookup interface {
	GetUserByUsername(username string) (*models.User, error)
}

// MentionResolver extracts @handle tokens from free text and resolves them
// to users. Producers call it on post/comment creation and emit one mention
// event per resolved user.
type MentionResolver struct {
	users UserLookup
}

func NewMentionResolver(users UserLookup) *MentionResolver {
	return &MentionResolver{users: users}
}

// Resolve returns the users mentioned in text, deduplicated
// case-insensitively, with unresolvable handles dropped silently and the
// author excluded. The dispatcher re-checks self-targeting on every event;
// the exclusion here is an independent layer, not a replacement for that.
func (r *MentionResolver) Resolve(text string, authorID uint) []models.User {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var users []models.User
	for _, m := range matches {
		handle := strings.ToLower(m[1])
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}

		user, err := r.users.GetUserByUsername(handle)
		if err != nil || user == nil {
			continue
		}
		if user.ID == authorID {
			continue
		}
		users = append(users, *user)
	}
	return users
}
