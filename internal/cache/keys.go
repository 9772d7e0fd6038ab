package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostListKey   = "posts:list"
	PollListKey   = "polls:list"
	PollKeyPrefix = "poll:%d"
	RevokedPrefix = "jwt:revoked:%s"
)

const (
	PostListTTL = 30 * time.Second
	PollListTTL = 30 * time.Second
	PollTTL     = 30 * time.Second
)

func PollKey(pollID uint) string {
	return fmt.Sprintf(PollKeyPrefix, pollID)
}

// RevokedTokenKey is the blacklist entry for a logged-out token id.
func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(RevokedPrefix, jti)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidatePosts drops cached post listings after a post or its counters change.
func InvalidatePosts(ctx context.Context) {
	Invalidate(ctx, PostListKey)
}

// InvalidatePoll drops the cached poll and the poll listing.
func InvalidatePoll(ctx context.Context, pollID uint) {
	InvalidatePolls(ctx, pollID)
}

// InvalidatePolls drops several cached polls and the poll listing in one DEL.
func InvalidatePolls(ctx context.Context, pollIDs ...uint) {
	keys := make([]string, 0, len(pollIDs)+1)
	for _, id := range pollIDs {
		keys = append(keys, PollKey(id))
	}
	Invalidate(ctx, append(keys, PollListKey)...)
}
