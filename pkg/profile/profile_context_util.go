package profile

import (
	"context"
)

type contextKey string

const ProfileKey contextKey = "profileId"

// DefaultProfileID is used when a request carries no X-Profile-Id header.
const DefaultProfileID = "default"

// CurrentId retrieves the current profile id from the context, falling back
// to DefaultProfileID.
func CurrentId(ctx context.Context) string {
	id, ok := ctx.Value(ProfileKey).(string)
	if !ok || id == "" {
		return DefaultProfileID
	}
	return id
}

func WithProfile(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, ProfileKey, profileID)
}
