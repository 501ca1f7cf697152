package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix      = "post:%d"
	SponsoredListKey   = "posts:sponsored"
	FeaturedListKey    = "posts:featured"
)

const (
	PostTTL = 30 * time.Minute
	ListTTL = 2 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	InvalidatePostLists(ctx)
}

func InvalidatePostLists(ctx context.Context) {
	Invalidate(ctx, SponsoredListKey)
	Invalidate(ctx, FeaturedListKey)
}
