package usecase

import (
	"context"

	"github.com/toolbridge/slack-mcp-server/pkg/service/format"
	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
)

// ListUsers returns up to limit workspace members
func (uc *UseCases) ListUsers(ctx context.Context, limit int) (map[string]any, error) {
	if limit <= 0 {
		limit = defaultUserLimit
	}

	svc, err := uc.holder.Get()
	if err != nil {
		return nil, err
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		return nil, withSubject(err, "users.list")
	}
	if len(users) > limit {
		users = users[:limit]
	}

	entries := make([]any, 0, len(users))
	for _, u := range users {
		if v := format.StripEmpty(userEntry(u)); v != nil {
			entries = append(entries, v)
		}
	}

	return map[string]any{
		"users": entries,
		"count": len(entries),
	}, nil
}

// UserProfile returns one member's profile
func (uc *UseCases) UserProfile(ctx context.Context, userID string) (map[string]any, error) {
	svc, err := uc.holder.Get()
	if err != nil {
		return nil, err
	}

	user, err := svc.UserInfo(ctx, userID)
	if err != nil {
		return nil, withSubject(err, "user "+userID)
	}

	if v, ok := format.StripEmpty(userEntry(*user)).(map[string]any); ok {
		return v, nil
	}
	return map[string]any{"id": user.ID}, nil
}

func userEntry(u slackapi.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"name":        u.Name,
		"realName":    u.RealName,
		"displayName": u.DisplayName,
		"email":       u.Email,
		"title":       u.Title,
		"timeZone":    u.TimeZone,
		"isBot":       u.IsBot,
		"isAdmin":     u.IsAdmin,
		"deleted":     u.Deleted,
	}
}
