package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	PostKeyPrefix       = "post:%d"
	PostDetailKeyPrefix = "post:%d:detail:%d"
	TagsKeyPrefix       = "tags:%d:%d"
)

const (
	UserTTL       = 5 * time.Minute
	PostDetailTTL = 2 * time.Minute
	TagsTTL       = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// PostDetailKey is per-viewer: the detail view carries the viewer's liked flag.
func PostDetailKey(postID, viewerID uint) string {
	return fmt.Sprintf(PostDetailKeyPrefix, postID, viewerID)
}

func TagsKey(limit, offset int) string {
	return fmt.Sprintf(TagsKeyPrefix, limit, offset)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the post key and every per-viewer detail key.
func InvalidatePost(ctx context.Context, postID uint) {
	if client == nil {
		return
	}
	Invalidate(ctx, PostKey(postID))
	pattern := fmt.Sprintf("post:%d:detail:*", postID)
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

// InvalidateTags drops all tag list pages.
func InvalidateTags(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "tags:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
