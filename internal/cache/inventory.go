package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ThreadKeyPrefix    = "thread:%d"
	CommunityKeyPrefix = "community:%s"
	UserKeyPrefix      = "user:%d"
)

// Only anonymous reads are cached (they carry no per-user vote
// annotation), so TTLs stay short to keep vote counts fresh.
const (
	ThreadTTL    = 2 * time.Minute
	CommunityTTL = 10 * time.Minute
	UserTTL      = 5 * time.Minute
)

func ThreadKey(threadID uint) string {
	return fmt.Sprintf(ThreadKeyPrefix, threadID)
}

func CommunityKey(slug string) string {
	return fmt.Sprintf(CommunityKeyPrefix, slug)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateThread(ctx context.Context, threadID uint) {
	Invalidate(ctx, ThreadKey(threadID))
}

func InvalidateCommunity(ctx context.Context, slug string) {
	Invalidate(ctx, CommunityKey(slug))
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
