package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/feed_service/cachekey"
	"github.com/Xushengqwer/feed_service/models/events"
	"github.com/Xushengqwer/feed_service/myErrors"
)

type fakeCacheStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
	scans   []string
	lastTTL time.Duration
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{data: make(map[string][]byte)}
}

func (f *fakeCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return nil, myErrors.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.lastTTL = ttl
	return nil
}

func (f *fakeCacheStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func (f *fakeCacheStore) DeleteByPattern(_ context.Context, pattern string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans = append(f.scans, pattern)
	// 简化的 glob: 只支持结尾 "*"，与失效规则产出的模式一致
	prefix := pattern[:len(pattern)-1]
	var count int64
	for key := range f.data {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(f.data, key)
			count++
		}
	}
	return count, nil
}

func newInvalidationFixture(t *testing.T) (CacheInvalidationService, *fakeCacheStore) {
	t.Helper()
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	require.NoError(t, err)
	store := newFakeCacheStore()
	return NewCacheInvalidationService(store, logger), store
}

func hashed(id uint64) string {
	return cachekey.HashID(strconv.FormatUint(id, 10))
}

func TestKeysFor_PostEvent(t *testing.T) {
	svc, _ := newInvalidationFixture(t)

	targets := svc.KeysFor(events.KindPost, 42, 42)

	assert.Equal(t, []string{"feed_cache:posts:params:*"}, targets.Patterns)
	assert.Equal(t, []string{"feed_cache:posts:" + hashed(42)}, targets.ExactKeys)
}

func TestKeysFor_LikeEventMatchesPostScope(t *testing.T) {
	svc, _ := newInvalidationFixture(t)

	likeTargets := svc.KeysFor(events.KindLike, 10, 42)
	postTargets := svc.KeysFor(events.KindPost, 42, 42)

	// 点赞无独立缓存端点，失效范围与帖子本身一致
	assert.Equal(t, postTargets, likeTargets)
}

func TestKeysFor_CommentEventAddsCommentScope(t *testing.T) {
	svc, _ := newInvalidationFixture(t)

	targets := svc.KeysFor(events.KindComment, 7, 42)

	postHash := hashed(42)
	assert.ElementsMatch(t, []string{
		"feed_cache:posts:params:*",
		"feed_cache:posts:" + postHash + ":comments:params:*",
	}, targets.Patterns)
	assert.ElementsMatch(t, []string{
		"feed_cache:posts:" + postHash,
		"feed_cache:posts:" + postHash + ":comments:" + hashed(7),
	}, targets.ExactKeys)
}

func TestKeysFor_EntityIDsAreHashed(t *testing.T) {
	svc, _ := newInvalidationFixture(t)

	targets := svc.KeysFor(events.KindPost, 42, 42)

	// 失效 Key 必须使用与读路径相同的摘要段，裸 ID 永远对不上任何缓存条目
	for _, key := range targets.ExactKeys {
		assert.NotContains(t, key, ":42")
	}
}

func TestKeysFor_UnknownKindIsEmpty(t *testing.T) {
	svc, _ := newInvalidationFixture(t)

	targets := svc.KeysFor(events.EntityKind("reaction"), 1, 2)

	assert.Empty(t, targets.ExactKeys)
	assert.Empty(t, targets.Patterns)
}

func TestInvalidate_RemovesListAndDetailEntries(t *testing.T) {
	svc, store := newInvalidationFixture(t)
	ctx := context.Background()

	postHash := hashed(42)
	listKey := "feed_cache:posts:params:" + cachekey.HashID("page=1")
	detailKey := "feed_cache:posts:" + postHash
	otherDetailKey := "feed_cache:posts:" + hashed(7)

	require.NoError(t, store.Set(ctx, listKey, []byte("list"), 0))
	require.NoError(t, store.Set(ctx, detailKey, []byte("detail"), 0))
	require.NoError(t, store.Set(ctx, otherDetailKey, []byte("other"), 0))

	require.NoError(t, svc.Invalidate(ctx, events.KindLike, 10, 42))

	_, err := store.Get(ctx, listKey)
	assert.ErrorIs(t, err, myErrors.ErrCacheMiss, "列表缓存应被模式删除清掉")
	_, err = store.Get(ctx, detailKey)
	assert.ErrorIs(t, err, myErrors.ErrCacheMiss, "详情缓存应被精确删除清掉")

	// 其他帖子的详情缓存不受影响
	_, err = store.Get(ctx, otherDetailKey)
	assert.NoError(t, err)
}

func TestInvalidate_IsIdempotent(t *testing.T) {
	svc, _ := newInvalidationFixture(t)
	ctx := context.Background()

	// 空缓存上重复失效不报错: 事件重放安全
	require.NoError(t, svc.Invalidate(ctx, events.KindComment, 7, 42))
	require.NoError(t, svc.Invalidate(ctx, events.KindComment, 7, 42))
}
